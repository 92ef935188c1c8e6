package i18n

var ALLOW_LANG = map[string]bool{
	"en":    true,
	"zh-CN": true,
}

const DEFAULT_LANG = "en"

const (
	ERROR_INTERNAL          = "error.internal"
	ERROR_NOT_FOUND         = "error.notfound"
	ERROR_INVALIDARGUMENT   = "error.invalidargument"
	ERROR_UNAUTHORIZED      = "error.unauthorized"
	ERROR_FORBIDDEN         = "error.forbidden"
	ERROR_EXIST             = "error.exist"
	ERROR_TOO_MANY_REQUESTS = "error.tooManyRequests"

	ERROR_GATEWAY            = "error.gateway"
	ERROR_PROJECT_TYPE       = "error.project.type.unsupported"
	ERROR_UPLOAD_NOT_CSV     = "error.upload.not_csv"
	ERROR_UPLOAD_TOO_LARGE   = "error.upload.too_large"
	ERROR_INVALID_ACCOUNT    = "error.invalid.account"
	ERROR_EMAIL_ALREADY_USED = "error.email_has_already_registered"
)
