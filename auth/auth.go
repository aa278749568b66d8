// Package auth 登录校验，与查询引擎无关
package auth

import (
	"crypto/subtle"

	"github.com/pkg/errors"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Checker 校验用户名和密码
type Checker interface {
	Check(username, password string) error
}

type StaticCheckerOptions struct {
	Username string `cfg:"username" def:"admin" validate:"required"`
	Password string `cfg:"password" def:"admin" validate:"required"`
}

// StaticChecker 只接受配置中的一组用户名和密码
type StaticChecker struct {
	username []byte
	password []byte
}

func NewStaticCheckerWithOptions(options *StaticCheckerOptions) (*StaticChecker, error) {
	if options == nil || options.Username == "" || options.Password == "" {
		return nil, errors.New("username and password are required")
	}
	return &StaticChecker{
		username: []byte(options.Username),
		password: []byte(options.Password),
	}, nil
}

func (c *StaticChecker) Check(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), c.username)
	passOK := subtle.ConstantTimeCompare([]byte(password), c.password)
	if userOK&passOK != 1 {
		return ErrInvalidCredentials
	}
	return nil
}
