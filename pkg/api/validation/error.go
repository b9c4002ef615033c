// LaunchOpts Core
// Copyright (c) 2026 The LaunchOpts Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of LaunchOpts Core.
//
// LaunchOpts Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// LaunchOpts Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with LaunchOpts Core.  If not, see <http://www.gnu.org/licenses/>.

package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error wraps validator errors with a readable, field-oriented message.
type Error struct {
	fields []string
}

// NewError creates an Error from validator field errors.
func NewError(errs validator.ValidationErrors) *Error {
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fe.Field()+" failed "+fe.Tag()+" validation")
	}
	return &Error{fields: fields}
}

func (e *Error) Error() string {
	return "invalid params: " + strings.Join(e.fields, "; ")
}
