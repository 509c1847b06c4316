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

package opts

import (
    `testing`

    `github.com/stretchr/testify/require`
)

func TestOptions_Limits(t *testing.T) {
    o := Options { MaxSpillRounds: 2, MaxSpillSlots: 3 }
    require.True(t, o.CanRetry(1))
    require.False(t, o.CanRetry(2))
    require.True(t, o.CanSpill(3))
    require.False(t, o.CanSpill(4))

    /* zero means unlimited */
    o = Options{}
    require.True(t, o.CanRetry(1 << 20))
    require.True(t, o.CanSpill(1 << 20))
}

func TestParseOrDefault(t *testing.T) {
    t.Setenv("RALLOC_TEST_VALUE", "")
    require.Equal(t, 7, parseOrDefault("RALLOC_TEST_VALUE", 7, 1))
    t.Setenv("RALLOC_TEST_VALUE", "16")
    require.Equal(t, 16, parseOrDefault("RALLOC_TEST_VALUE", 7, 1))
    t.Setenv("RALLOC_TEST_VALUE", "1")
    require.Equal(t, 1, parseOrDefault("RALLOC_TEST_VALUE", 7, 1))
    t.Setenv("RALLOC_TEST_VALUE", "0")
    require.Panics(t, func() { parseOrDefault("RALLOC_TEST_VALUE", 7, 1) })
    t.Setenv("RALLOC_TEST_VALUE", "x")
    require.Panics(t, func() { parseOrDefault("RALLOC_TEST_VALUE", 7, 1) })
}
