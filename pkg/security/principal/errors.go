// SPDX-License-Identifier: Apache-2.0

package principal

import (
	"github.com/joomcode/errorx"
)

var (
	ErrorsNamespace    = errorx.NewNamespace("principal")
	UserNotFoundError  = ErrorsNamespace.NewType("user_not_found", errorx.NotFound())
	GroupNotFoundError = ErrorsNamespace.NewType("group_not_found", errorx.NotFound())
)

var (
	nameProperty = errorx.RegisterPrintableProperty("name")
	uidProperty  = errorx.RegisterPrintableProperty("uid")
	gidProperty  = errorx.RegisterPrintableProperty("gid")
)

func NewUserNotFoundError(cause error, name string, uid string) *errorx.Error {
	if cause == nil {
		return UserNotFoundError.New("user with name %q and uid %q not found", name, uid).
			WithProperty(nameProperty, name).
			WithProperty(uidProperty, uid)
	}

	return UserNotFoundError.New("user with name %q and uid %q not found", name, uid).
		WithProperty(nameProperty, name).
		WithProperty(uidProperty, uid).
		WithUnderlyingErrors(cause)
}

func NewGroupNotFoundError(cause error, name string, gid string) *errorx.Error {
	if cause == nil {
		return GroupNotFoundError.New("group with name %q and gid %q not found", name, gid).
			WithProperty(nameProperty, name).
			WithProperty(gidProperty, gid)
	}

	return GroupNotFoundError.New("group with name %q and gid %q not found", name, gid).
		WithProperty(nameProperty, name).
		WithProperty(gidProperty, gid).
		WithUnderlyingErrors(cause)
}
