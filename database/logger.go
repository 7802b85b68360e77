/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"sync/atomic"

	"github.com/tomoncle/sieve/utils"
)

// Logger receives key/value pairs after the message. *utils.KVLogger
// satisfies it.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

type loggerBox struct{ Logger }

var packageLogger atomic.Pointer[loggerBox]

// SetLogger replaces the package logger picked up by managers and migration
// runners created afterwards. A nil logger restores the default.
func SetLogger(log Logger) {
	if log == nil {
		packageLogger.Store(nil)
		return
	}
	packageLogger.Store(&loggerBox{log})
}

// GetLogger returns the package logger, the named "DATABASE" logger unless
// SetLogger installed another.
func GetLogger() Logger {
	for {
		if b := packageLogger.Load(); b != nil {
			return b.Logger
		}
		packageLogger.CompareAndSwap(nil, &loggerBox{utils.NewKVLogger("DATABASE")})
	}
}
