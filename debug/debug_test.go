/*
 * Copyright 2022 CloudWeGo Authors
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


package debug

import (
	"testing"

	"github.com/cloudwego/ralloc"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	p, err := ralloc.ParseProgram([]byte(`{"functions": [{"name": "f", "instrs": [
        {"op": "const", "dest": "a", "value": 1},
        {"op": "print", "args": ["a"]}
    ]}]}`))
	require.NoError(t, err)
	old := GetStats()
	_, _, err = ralloc.AllocateProgram(p, ralloc.NewGeneric(1))
	require.NoError(t, err)
	now := GetStats()
	require.Equal(t, old.Functions + 1, now.Functions)
	require.Equal(t, old.Rounds + 1, now.Rounds)
	require.Equal(t, old.Spilled, now.Spilled)
}
