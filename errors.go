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

package ralloc

import (
    `github.com/cloudwego/ralloc/internal/utils`
)

type (
    // ConstructionError occurs when a function cannot be decoded or split
    // into basic blocks.
    ConstructionError = utils.ConstructionError

    // RenameError occurs when a register is used without any reaching
    // definition.
    RenameError = utils.RenameError

    // InvariantError occurs when the allocator detects an internal bug.
    InvariantError = utils.InvariantError

    // ExhaustedError occurs when allocation runs out of a bounded resource.
    ExhaustedError = utils.ExhaustedError
)
