package v1

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/askdb-ai/askdb/app/core"
	"github.com/askdb-ai/askdb/pkg/aigateway"
	"github.com/askdb-ai/askdb/pkg/errors"
	"github.com/askdb-ai/askdb/pkg/i18n"
	"github.com/askdb-ai/askdb/pkg/types"
	"github.com/askdb-ai/askdb/pkg/utils"
)

const suggestionsCacheTTL = time.Minute * 10

type ProjectLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewProjectLogic(ctx context.Context, core *core.Core) *ProjectLogic {
	return &ProjectLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *ProjectLogic) CreateProject(name string, dbConfig types.DBConfig) (*types.Project, error) {
	project := types.Project{
		ID:       utils.GenUniqIDStr(),
		UserID:   l.GetUserInfo().User,
		Name:     name,
		Type:     types.PROJECT_TYPE_MYSQL,
		DBConfig: dbConfig,
	}

	if err := l.core.Store().ProjectStore().Create(l.ctx, project); err != nil {
		if isUniqueViolation(err) {
			return nil, errors.New("ProjectLogic.CreateProject.nameUsed", i18n.ERROR_EXIST, err).Code(http.StatusConflict)
		}
		return nil, errors.New("ProjectLogic.CreateProject.ProjectStore.Create", i18n.ERROR_INTERNAL, err)
	}
	return &project, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return stderrors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CreateCSVProject stores the uploaded file and binds a csv project to it.
func (l *ProjectLogic) CreateCSVProject(name, fileName string, content []byte) (*types.Project, error) {
	if strings.ToLower(filepath.Ext(fileName)) != ".csv" {
		return nil, errors.New("ProjectLogic.CreateCSVProject.notCSV", i18n.ERROR_UPLOAD_NOT_CSV, nil).Code(http.StatusBadRequest)
	}
	if int64(len(content)) > l.core.Cfg().Upload.MaxSizeBytes() {
		return nil, errors.New("ProjectLogic.CreateCSVProject.tooLarge", i18n.ERROR_UPLOAD_TOO_LARGE, nil).Code(http.StatusBadRequest)
	}

	projectID := utils.GenUniqIDStr()
	csvPath := filepath.Join("uploads", projectID+".csv")
	if err := l.core.FileStorage().SaveFile(csvPath, content); err != nil {
		return nil, errors.New("ProjectLogic.CreateCSVProject.FileStorage.SaveFile", i18n.ERROR_INTERNAL, err)
	}

	project := types.Project{
		ID:      projectID,
		UserID:  l.GetUserInfo().User,
		Name:    name,
		Type:    types.PROJECT_TYPE_CSV,
		CSVPath: csvPath,
	}

	if err := l.core.Store().ProjectStore().Create(l.ctx, project); err != nil {
		// do not leave the stored file behind when the insert failed
		if cleanErr := l.core.FileStorage().DeleteFile(csvPath); cleanErr != nil {
			slogProjectFileError(projectID, cleanErr)
		}
		if isUniqueViolation(err) {
			return nil, errors.New("ProjectLogic.CreateCSVProject.nameUsed", i18n.ERROR_EXIST, err).Code(http.StatusConflict)
		}
		return nil, errors.New("ProjectLogic.CreateCSVProject.ProjectStore.Create", i18n.ERROR_INTERNAL, err)
	}
	return &project, nil
}

func (l *ProjectLogic) GetProject(projectID string) (*types.Project, error) {
	project, err := l.core.Store().ProjectStore().GetProject(l.ctx, l.GetUserInfo().User, projectID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("ProjectLogic.GetProject.ProjectStore.GetProject", i18n.ERROR_INTERNAL, err)
	}
	if project == nil || err == sql.ErrNoRows {
		return nil, errors.New("ProjectLogic.GetProject.notFound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	return project, nil
}

func (l *ProjectLogic) ListProjects(page, pageSize uint64) ([]types.Project, int64, error) {
	userID := l.GetUserInfo().User

	list, err := l.core.Store().ProjectStore().List(l.ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, errors.New("ProjectLogic.ListProjects.ProjectStore.List", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().ProjectStore().Total(l.ctx, userID)
	if err != nil {
		return nil, 0, errors.New("ProjectLogic.ListProjects.ProjectStore.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}

// UpdateProject merges non-empty connection settings into the stored
// config, so the password does not need re-entering on every edit.
func (l *ProjectLogic) UpdateProject(projectID, name string, dbConfig types.DBConfig) (*types.Project, error) {
	project, err := l.GetProject(projectID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		project.Name = name
	}
	project.DBConfig.Merge(dbConfig)

	if err = l.core.Store().ProjectStore().Update(l.ctx, project.UserID, project.ID, project.Name, project.DBConfig); err != nil {
		return nil, errors.New("ProjectLogic.UpdateProject.ProjectStore.Update", i18n.ERROR_INTERNAL, err)
	}

	l.core.Cache().Del(l.ctx, suggestionsCacheKey(project.ID))
	return project, nil
}

// DeleteProject removes the project together with every session and
// message that references it, then drops the uploaded file.
func (l *ProjectLogic) DeleteProject(projectID string) error {
	project, err := l.GetProject(projectID)
	if err != nil {
		return err
	}

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().ChatMessageStore().DeleteByProject(ctx, projectID); err != nil {
			return errors.New("ProjectLogic.DeleteProject.ChatMessageStore.DeleteByProject", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().ChatSessionStore().DeleteByProject(ctx, projectID); err != nil {
			return errors.New("ProjectLogic.DeleteProject.ChatSessionStore.DeleteByProject", i18n.ERROR_INTERNAL, err)
		}
		if err := l.core.Store().ProjectStore().Delete(ctx, project.UserID, projectID); err != nil {
			return errors.New("ProjectLogic.DeleteProject.ProjectStore.Delete", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if project.Type == types.PROJECT_TYPE_CSV && project.CSVPath != "" {
		if err := l.core.FileStorage().DeleteFile(project.CSVPath); err != nil {
			slogProjectFileError(projectID, err)
		}
	}

	l.core.Cache().Del(l.ctx, suggestionsCacheKey(projectID))
	return nil
}

// GetSchema asks the reasoning service to introspect the project's data
// source.
func (l *ProjectLogic) GetSchema(projectID string) (*aigateway.SchemaResponse, error) {
	project, err := l.GetProject(projectID)
	if err != nil {
		return nil, err
	}

	conn, err := buildDBConnection(l.ctx, l.core, project)
	if err != nil {
		return nil, err
	}

	timer := l.core.Metrics().GatewayRequestTimer("schema")
	schema, err := l.core.Gateway().Schema(l.ctx, conn)
	timer.ObserveDuration()
	if err != nil {
		l.core.Metrics().GatewayErrorInc("schema")
		return nil, errors.New("ProjectLogic.GetSchema.Gateway.Schema", i18n.ERROR_GATEWAY, err).Code(http.StatusBadGateway)
	}
	return schema, nil
}

func suggestionsCacheKey(projectID string) string {
	return "askdb:suggestions:" + projectID
}

// GetSuggestions returns example questions for the project's data source,
// cached briefly since schema inspection plus generation is expensive.
func (l *ProjectLogic) GetSuggestions(projectID string) ([]string, error) {
	project, err := l.GetProject(projectID)
	if err != nil {
		return nil, err
	}

	cacheKey := suggestionsCacheKey(projectID)
	if cached, err := l.core.Cache().Get(l.ctx, cacheKey); err == nil && cached != "" {
		var questions []string
		if err = json.Unmarshal([]byte(cached), &questions); err == nil {
			return questions, nil
		}
	}

	conn, err := buildDBConnection(l.ctx, l.core, project)
	if err != nil {
		return nil, err
	}

	timer := l.core.Metrics().GatewayRequestTimer("suggest_questions")
	questions, err := l.core.Gateway().SuggestQuestions(l.ctx, conn)
	timer.ObserveDuration()
	if err != nil {
		l.core.Metrics().GatewayErrorInc("suggest_questions")
		return nil, errors.New("ProjectLogic.GetSuggestions.Gateway.SuggestQuestions", i18n.ERROR_GATEWAY, err).Code(http.StatusBadGateway)
	}

	if raw, err := json.Marshal(questions); err == nil {
		l.core.Cache().SetEx(l.ctx, cacheKey, string(raw), suggestionsCacheTTL)
	}
	return questions, nil
}
