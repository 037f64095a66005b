package models

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+$`)

// SignInForm 登录表单
type SignInForm struct {
	Email    string `form:"email" json:"email" example:"user@example.com"`
	Password string `form:"password" json:"password" example:"secret123"`
}

// Validate 校验登录表单
func (f SignInForm) Validate() error {
	errs := ValidationErrors{}
	if len(strings.TrimSpace(f.Email)) < 3 {
		errs["email"] = "Email must be at least 3 characters"
	}
	if len(f.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	return errs.orNil()
}

// SignUpForm 注册表单
type SignUpForm struct {
	Name            string `form:"name" json:"name" example:"Asha"`
	Email           string `form:"email" json:"email" example:"asha@example.com"`
	Password        string `form:"password" json:"password" example:"secret123"`
	ConfirmPassword string `form:"confirm_password" json:"confirmPassword" example:"secret123"`
}

// Validate 校验注册表单
func (f SignUpForm) Validate() error {
	errs := ValidationErrors{}
	if !emailPattern.MatchString(f.Email) {
		errs["email"] = "Invalid email"
	}
	if len(strings.TrimSpace(f.Name)) < 3 {
		errs["name"] = "Name must be at least 3 characters"
	}
	if len(f.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	if f.ConfirmPassword != f.Password {
		errs["confirm_password"] = "Passwords did not match"
	}
	return errs.orNil()
}

// IsValidEmail 判断邮箱格式
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
