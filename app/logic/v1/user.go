package v1

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/askdb-ai/askdb/app/core"
	"github.com/askdb-ai/askdb/pkg/errors"
	"github.com/askdb-ai/askdb/pkg/i18n"
	"github.com/askdb-ai/askdb/pkg/security"
	"github.com/askdb-ai/askdb/pkg/types"
	"github.com/askdb-ai/askdb/pkg/utils"
)

type AuthLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewAuthLogic(ctx context.Context, core *core.Core) *AuthLogic {
	return &AuthLogic{
		ctx:  ctx,
		core: core,
	}
}

type AuthResult struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

func (l *AuthLogic) Register(name, email, password string) (*AuthResult, error) {
	exist, err := l.core.Store().UserStore().GetByEmail(l.ctx, email)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("AuthLogic.Register.UserStore.GetByEmail", i18n.ERROR_INTERNAL, err)
	}
	if exist != nil && err == nil {
		return nil, errors.New("AuthLogic.Register.emailUsed", i18n.ERROR_EMAIL_ALREADY_USED, nil).Code(http.StatusConflict)
	}

	salt := utils.RandomStr(10)
	user := types.User{
		ID:       utils.GenUniqIDStr(),
		Name:     name,
		Email:    email,
		Salt:     salt,
		Password: utils.GenUserPassword(salt, password),
	}

	if err = l.core.Store().UserStore().Create(l.ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, errors.New("AuthLogic.Register.UserStore.Create.emailUsed", i18n.ERROR_EMAIL_ALREADY_USED, err).Code(http.StatusConflict)
		}
		return nil, errors.New("AuthLogic.Register.UserStore.Create", i18n.ERROR_INTERNAL, err)
	}

	return l.issueToken(user)
}

func (l *AuthLogic) Login(email, password string) (*AuthResult, error) {
	user, err := l.core.Store().UserStore().GetByEmail(l.ctx, email)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("AuthLogic.Login.UserStore.GetByEmail", i18n.ERROR_INTERNAL, err)
	}
	if user == nil || err == sql.ErrNoRows {
		return nil, errors.New("AuthLogic.Login.userNotFound", i18n.ERROR_INVALID_ACCOUNT, nil).Code(http.StatusUnauthorized)
	}

	if user.Password != utils.GenUserPassword(user.Salt, password) {
		return nil, errors.New("AuthLogic.Login.wrongPassword", i18n.ERROR_INVALID_ACCOUNT, nil).Code(http.StatusUnauthorized)
	}

	return l.issueToken(*user)
}

func (l *AuthLogic) issueToken(user types.User) (*AuthResult, error) {
	claims := security.NewTokenClaims(user.ID, user.Email, time.Now().Add(l.core.Cfg().Security.TokenTTL()).Unix())
	token, err := security.GenerateJWT(claims, []byte(l.core.Cfg().Security.TokenSecret))
	if err != nil {
		return nil, errors.New("AuthLogic.issueToken.GenerateJWT", i18n.ERROR_INTERNAL, err)
	}

	return &AuthResult{
		Token: token,
		User:  user,
	}, nil
}

type UserLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewUserLogic(ctx context.Context, core *core.Core) *UserLogic {
	return &UserLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// UpdateUserProfile changes the display name and email. The caller sends
// the full desired values, not a diff.
func (l *UserLogic) UpdateUserProfile(name, email string) error {
	user, err := l.GetUser()
	if err != nil {
		return err
	}

	if email != user.Email {
		exist, err := l.core.Store().UserStore().GetByEmail(l.ctx, email)
		if err != nil && err != sql.ErrNoRows {
			return errors.New("UserLogic.UpdateUserProfile.UserStore.GetByEmail", i18n.ERROR_INTERNAL, err)
		}
		if exist != nil && err == nil {
			return errors.New("UserLogic.UpdateUserProfile.emailUsed", i18n.ERROR_EMAIL_ALREADY_USED, nil).Code(http.StatusConflict)
		}
	}

	if err := l.core.Store().UserStore().UpdateUserProfile(l.ctx, user.ID, name, email); err != nil {
		if isUniqueViolation(err) {
			return errors.New("UserLogic.UpdateUserProfile.UserStore.UpdateUserProfile.emailUsed", i18n.ERROR_EMAIL_ALREADY_USED, err).Code(http.StatusConflict)
		}
		return errors.New("UserLogic.UpdateUserProfile.UserStore.UpdateUserProfile", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *UserLogic) GetUser() (*types.User, error) {
	user, err := l.core.Store().UserStore().GetUser(l.ctx, l.GetUserInfo().User)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("UserLogic.GetUser.UserStore.GetUser", i18n.ERROR_INTERNAL, err)
	}
	if user == nil || err == sql.ErrNoRows {
		return nil, errors.New("UserLogic.GetUser.notFound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	return user, nil
}
