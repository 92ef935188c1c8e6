package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/askdb-ai/askdb/app/core"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}
