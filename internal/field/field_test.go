package field

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecNullHandling(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		wantErr bool
	}{
		{name: "optional nullable accepts null", spec: Spec{Nullable: true}},
		{name: "required rejects null", spec: Spec{Required: true, Nullable: true}, wantErr: true},
		{name: "non-nullable rejects null", spec: Spec{Nullable: false}, wantErr: true},
		{name: "required non-nullable rejects null", spec: Spec{Required: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := String{Spec: tt.spec}
			err := f.Set(nil)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Empty(t, f.Value)
			}
		})
	}
}

func TestStringSet(t *testing.T) {
	f := String{Spec: Spec{Nullable: true}}
	require.NoError(t, f.Set("hello"))
	assert.Equal(t, "hello", f.Value)

	assert.Error(t, f.Set(42.0))
	assert.Error(t, f.Set([]any{"a"}))
}

func TestArgumentsSet(t *testing.T) {
	f := Arguments{Spec: Spec{Required: true, Nullable: true}}
	require.NoError(t, f.Set(map[string]any{"phone": "79175002040"}))
	assert.Equal(t, "79175002040", f.Value["phone"])

	assert.Error(t, f.Set("not a mapping"))
	assert.Error(t, f.Set([]any{1, 2}))
	assert.Error(t, f.Set(nil))
}

func TestEmailSet(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{name: "plain address", value: "a@b"},
		{name: "empty string", value: ""},
		{name: "missing at sign", value: "nobody.example.com", wantErr: true},
		{name: "not a string", value: 7.0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Email{String: String{Spec: Spec{Nullable: true}}}
			err := f.Set(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPhoneSet(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    string
		wantErr bool
	}{
		{name: "string form", value: "79175002040", want: "79175002040"},
		{name: "integer form", value: 79175002040.0, want: "79175002040"},
		{name: "empty counts as unset", value: "", want: ""},
		{name: "wrong prefix", value: "89175002040", wantErr: true},
		{name: "too short", value: "7917500204", wantErr: true},
		{name: "too long", value: "791750020400", wantErr: true},
		{name: "fractional number", value: 7917500204.5, wantErr: true},
		{name: "wrong type", value: []any{"79175002040"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Phone{Spec: Spec{Nullable: true}}
			err := f.Set(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Value)
		})
	}
}

func TestDateSet(t *testing.T) {
	f := Date{Spec: Spec{Nullable: true}}
	require.NoError(t, f.Set("19.07.2017"))
	assert.True(t, f.Present())
	assert.Equal(t, time.Date(2017, 7, 19, 0, 0, 0, 0, time.UTC), f.Value)

	for _, bad := range []any{"2017-07-19", "31.02.2017", "yesterday", 20170719.0} {
		g := Date{Spec: Spec{Nullable: true}}
		assert.Error(t, g.Set(bad), "value %v", bad)
	}

	empty := Date{Spec: Spec{Nullable: true}}
	require.NoError(t, empty.Set(""))
	assert.False(t, empty.Present())
}

func TestBirthdaySet(t *testing.T) {
	recent := time.Now().AddDate(-30, 0, 0).Format(DateLayout)
	f := Birthday{Date: Date{Spec: Spec{Nullable: true}}}
	require.NoError(t, f.Set(recent))
	assert.True(t, f.Present())

	tooOld := time.Now().AddDate(-71, 0, 0).Format(DateLayout)
	g := Birthday{Date: Date{Spec: Spec{Nullable: true}}}
	assert.Error(t, g.Set(tooOld))
}

func TestGenderSet(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int
		wantErr bool
	}{
		{name: "unknown", value: 0.0, want: GenderUnknown},
		{name: "male", value: 1.0, want: GenderMale},
		{name: "female", value: 2.0, want: GenderFemale},
		{name: "out of range", value: 3.0, wantErr: true},
		{name: "negative", value: -1.0, wantErr: true},
		{name: "fractional", value: 1.5, wantErr: true},
		{name: "string", value: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Gender{Spec: Spec{Nullable: true}}
			err := f.Set(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, f.Present())
				return
			}
			require.NoError(t, err)
			assert.True(t, f.Present())
			assert.Equal(t, tt.want, f.Value)
		})
	}
}

func TestClientIDsSet(t *testing.T) {
	f := ClientIDs{Spec: Spec{Required: true}}
	require.NoError(t, f.Set([]any{1.0, 2.0, 3.0}))
	assert.Equal(t, []int{1, 2, 3}, f.Value)

	for _, bad := range []any{nil, []any{}, []any{1.0, "two"}, []any{1.5}, "1,2,3", map[string]any{}} {
		g := ClientIDs{Spec: Spec{Required: true}}
		assert.Error(t, g.Set(bad), "value %v", bad)
	}
}
