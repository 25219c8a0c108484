// SPDX-License-Identifier: ice License 1.0

package time

import (
	"context"
	"testing"
	stdlibtime "time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

//nolint:funlen // It's better to keep it together.
func TestTime(t *testing.T) {
	t.Parallel()
	type tmpStruct struct {
		CreatedAt *Time `json:"createdAt"`
	}
	time1, err := stdlibtime.Parse(stdlibtime.RFC3339Nano, "2006-01-02T15:04:05.999999999Z")
	require.NoError(t, err)
	t1 := tmpStruct{CreatedAt: New(time1)}
	binary, err := t1.CreatedAt.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, "2006-01-02T15:04:05.999999999Z", string(binary))
	text, err := t1.CreatedAt.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2006-01-02T15:04:05.999999999Z", string(text))
	t11 := tmpStruct{CreatedAt: new(Time)}
	require.NoError(t, t11.CreatedAt.UnmarshalBinary(binary))
	t12 := tmpStruct{CreatedAt: new(Time)}
	require.NoError(t, t12.CreatedAt.UnmarshalText(binary))
	assert.EqualValues(t, t11, t12)
	assert.EqualValues(t, tmpStruct{CreatedAt: New(time1)}, t12)
	empty := tmpStruct{CreatedAt: new(Time)}
	require.NoError(t, empty.CreatedAt.UnmarshalText([]byte("")))
	emptyText, err := empty.CreatedAt.MarshalText()
	require.NoError(t, err)
	assert.Empty(t, string(emptyText))
	bytes, err := json.MarshalContext(context.Background(), t1)
	require.NoError(t, err)
	assert.Equal(t, `{"createdAt":"2006-01-02T15:04:05.999999999Z"}`, string(bytes))
	bytes, err = msgpack.Marshal(t1)
	require.NoError(t, err)
	var t13 tmpStruct
	require.NoError(t, msgpack.Unmarshal(bytes, &t13))
	assert.Equal(t, t1, t13)
	var t2 tmpStruct
	require.NoError(t, json.UnmarshalContext(context.Background(), []byte(`{"createdAt":1}`), &t2))
	assert.Equal(t, tmpStruct{CreatedAt: New(stdlibtime.Unix(0, 1).UTC())}, t2)
	bytes, err = json.MarshalContext(context.Background(), &tmpStruct{CreatedAt: New(stdlibtime.Unix(0, 0).UTC())})
	require.NoError(t, err)
	assert.Equal(t, `{"createdAt":null}`, string(bytes))
	var t21 tmpStruct
	require.NoError(t, json.UnmarshalContext(context.Background(), []byte(`{"createdAt":1655303440552373000}`), &t21))
	assert.Equal(t, tmpStruct{CreatedAt: New(stdlibtime.Unix(0, 1655303440552373000).UTC())}, t21)
	var t22 tmpStruct
	require.NoError(t, json.UnmarshalContext(context.Background(), []byte(`{"createdAt":1655303440552}`), &t22))
	assert.Equal(t, tmpStruct{CreatedAt: New(stdlibtime.Unix(0, 1655303440552000000).UTC())}, t22)
	var t3 tmpStruct
	require.NoError(t, json.UnmarshalContext(context.Background(), []byte(`{"createdAt":"2006-01-02T15:04:05.999999999Z"}`), &t3))
	assert.Equal(t, t1, t3)
	bytes, err = json.MarshalContext(context.Background(), tmpStruct{CreatedAt: Now()})
	require.NoError(t, err)
	assert.Regexp(t, `{"createdAt":".+"}`, string(bytes))
}
