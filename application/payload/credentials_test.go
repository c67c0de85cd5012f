package payload

import (
	"testing"

	"formpilot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestResolveLogin(t *testing.T) {
	t.Run("override email wins", func(t *testing.T) {
		got := ResolveLogin(
			&entities.AccountRecord{Email: "a@x.com"},
			&entities.LoginOverride{Email: strPtr("b@x.com")},
		)
		require.NotNil(t, got)
		assert.Equal(t, "b@x.com", got.Email)
	})

	t.Run("empty override keeps account", func(t *testing.T) {
		got := ResolveLogin(&entities.AccountRecord{Email: "a@x.com"}, &entities.LoginOverride{})
		require.NotNil(t, got)
		assert.Equal(t, "a@x.com", got.Email)
	})

	t.Run("explicit empty string still wins", func(t *testing.T) {
		got := ResolveLogin(
			&entities.AccountRecord{Email: "a@x.com", Username: "alice"},
			&entities.LoginOverride{Username: strPtr("")},
		)
		require.NotNil(t, got)
		assert.Equal(t, "", got.Username)
		assert.Equal(t, "a@x.com", got.Email)
	})

	t.Run("password and extra only from override", func(t *testing.T) {
		got := ResolveLogin(
			&entities.AccountRecord{Email: "a@x.com"},
			&entities.LoginOverride{Password: strPtr("s3cret"), Extra: map[string]string{"pin": "1234"}},
		)
		require.NotNil(t, got)
		assert.Equal(t, "s3cret", got.Password)
		assert.Equal(t, map[string]string{"pin": "1234"}, got.Extra)
	})

	t.Run("account only", func(t *testing.T) {
		got := ResolveLogin(&entities.AccountRecord{Username: "alice"}, nil)
		require.NotNil(t, got)
		assert.Equal(t, "alice", got.Username)
		assert.Empty(t, got.Password)
	})

	t.Run("override only", func(t *testing.T) {
		got := ResolveLogin(nil, &entities.LoginOverride{Email: strPtr("c@x.com")})
		require.NotNil(t, got)
		assert.Equal(t, "c@x.com", got.Email)
	})

	t.Run("both absent", func(t *testing.T) {
		assert.Nil(t, ResolveLogin(nil, nil))
	})
}

func TestBuildPayload(t *testing.T) {
	tmpl := &entities.Template{
		ID:       "tmpl-1",
		Name:     "Undergraduate",
		Fields:   sampleForest(),
		Metadata: map[string]any{"version": 2.0},
	}

	first := Build("demo", tmpl, map[string]any{"first_name": "Ada"}, &entities.AccountRecord{Email: "ada@x.com"}, nil)
	second := Build("demo", tmpl, nil, nil, nil)

	assert.Equal(t, "demo", first.SchoolID)
	assert.Equal(t, "tmpl-1", first.Template.ID)
	assert.Equal(t, "Undergraduate", first.Template.Name)
	assert.Len(t, first.Template.Fields, 6)
	assert.Equal(t, "Ada", first.Template.Fields[0].Value.String())
	require.NotNil(t, first.UserLogin)
	assert.Equal(t, "ada@x.com", first.UserLogin.Email)
	assert.Nil(t, second.UserLogin)

	assert.NotEmpty(t, first.RunID)
	assert.NotEqual(t, first.RunID, second.RunID)
}
