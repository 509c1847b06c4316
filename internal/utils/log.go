/*
 * Copyright 2022 ByteDance Inc.
 *
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

package utils

import (
    `log/slog`
    `os`

    `github.com/cloudwego/ralloc/internal/opts`
)

// Logger is shared by every pass. It only emits warnings unless RALLOC_DEBUG
// is set in the environment.
var Logger = newLogger(opts.Debug)

func newLogger(debug bool) *slog.Logger {
    lv := slog.LevelWarn
    if debug {
        lv = slog.LevelDebug
    }

    /* text output on stderr, the same as the runtime */
    return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions {
        Level     : lv,
        AddSource : debug,
    }))
}

// SetLogger replaces the shared logger and returns the old one.
func SetLogger(lg *slog.Logger) *slog.Logger {
    lg, Logger = Logger, lg
    return lg
}
