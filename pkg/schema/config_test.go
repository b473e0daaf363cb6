package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid config",
			cfg: Config{Collections: []Collection{
				{Name: "users", Fields: []Field{{Name: "email", Type: FieldEmail}}},
				{Name: "posts", Fields: []Field{
					{Name: "title", Type: FieldText},
					{Name: "author", Type: FieldRelation, RelationTo: "users"},
					{Name: "tags", Type: FieldSelect, Options: []string{"a", "b"}, Multiple: true},
				}},
			}},
		},
		{
			name:    "duplicate collection",
			cfg:     Config{Collections: []Collection{{Name: "users"}, {Name: "users"}}},
			wantErr: `duplicate collection "users"`,
		},
		{
			name: "duplicate field",
			cfg: Config{Collections: []Collection{
				{Name: "users", Fields: []Field{{Name: "email", Type: FieldEmail}, {Name: "email", Type: FieldText}}},
			}},
			wantErr: `duplicate field "email"`,
		},
		{
			name: "select without options",
			cfg: Config{Collections: []Collection{
				{Name: "users", Fields: []Field{{Name: "role", Type: FieldSelect}}},
			}},
			wantErr: `select field "role" has no options`,
		},
		{
			name: "relation without target",
			cfg: Config{Collections: []Collection{
				{Name: "posts", Fields: []Field{{Name: "author", Type: FieldRelation}}},
			}},
			wantErr: `relation field "author" has no target collection`,
		},
		{
			name: "relation to unknown collection",
			cfg: Config{Collections: []Collection{
				{Name: "posts", Fields: []Field{{Name: "author", Type: FieldRelation, RelationTo: "ghosts"}}},
			}},
			wantErr: `targets unknown collection "ghosts"`,
		},
		{
			name: "unsupported type",
			cfg: Config{Collections: []Collection{
				{Name: "users", Fields: []Field{{Name: "blob", Type: "binary"}}},
			}},
			wantErr: `unsupported type "binary"`,
		},
		{
			name: "multiple on text field",
			cfg: Config{Collections: []Collection{
				{Name: "users", Fields: []Field{{Name: "names", Type: FieldText, Multiple: true}}},
			}},
			wantErr: `field "names" cannot be multiple`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestApplyPlugins(t *testing.T) {
	addCollection := func(name string) Plugin {
		return func(cfg Config) Config {
			cfg.Collections = append(cfg.Collections, Collection{Name: name})
			return cfg
		}
	}

	cfg := Config{
		Collections: []Collection{{Name: "posts"}},
		Plugins:     []Plugin{addCollection("media"), addCollection("tags")},
	}

	applied := ApplyPlugins(cfg)

	require.Len(t, applied.Collections, 3)
	assert.Equal(t, "posts", applied.Collections[0].Name)
	assert.Equal(t, "media", applied.Collections[1].Name)
	assert.Equal(t, "tags", applied.Collections[2].Name)
	assert.Nil(t, applied.Plugins)
}
