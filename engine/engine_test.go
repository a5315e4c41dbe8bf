/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"bennypowers.dev/tsworker/engine"
	"bennypowers.dev/tsworker/engine/mocks"
)

func TestRegistry(t *testing.T) {
	ctrl := gomock.NewController(t)

	ts := mocks.NewMockEngine(ctrl)
	ts.EXPECT().Name().Return("typescript").AnyTimes()
	other := mocks.NewMockEngine(ctrl)
	other.EXPECT().Name().Return("other").AnyTimes()

	r := engine.NewRegistry(ts, other)
	assert.Equal(t, []string{"other", "typescript"}, r.Names())

	got, err := r.Lookup("typescript")
	require.NoError(t, err)
	assert.Same(t, ts, got)

	_, err = r.Lookup("flow")
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown analysis engine")
}

func TestDiagnostic(t *testing.T) {
	d := engine.Diagnostic{File: "/a.ts", Code: 2307}
	assert.True(t, d.HasFile())
	assert.Equal(t, "TS2307", d.CodeString())

	global := engine.Diagnostic{Message: "x"}
	assert.False(t, global.HasFile())
	assert.Empty(t, global.CodeString())
}
