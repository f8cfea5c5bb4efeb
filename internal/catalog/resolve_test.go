package catalog

import (
	"testing"

	"github.com/dapperline/deckhand/internal/model"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	user := &model.Schema{Name: "User", Type: model.TypeObject}
	table := map[string]*model.Schema{"User": user}

	t.Run("direct schema unchanged", func(t *testing.T) {
		direct := &model.Schema{Type: model.TypeString}
		require.Same(t, direct, Resolve(direct, table))
	})

	t.Run("reference resolves", func(t *testing.T) {
		ref := &model.Schema{Ref: "#/components/schemas/User"}
		require.Same(t, user, Resolve(ref, table))
	})

	t.Run("dangling reference comes back unchanged", func(t *testing.T) {
		ref := &model.Schema{Ref: "#/components/schemas/Missing"}
		require.Same(t, ref, Resolve(ref, table))
	})

	t.Run("nil schema", func(t *testing.T) {
		require.Nil(t, Resolve(nil, table))
	})

	t.Run("resolution does not mutate the table", func(t *testing.T) {
		ref := &model.Schema{Ref: "#/components/schemas/User"}
		_ = Resolve(ref, table)
		_ = Resolve(ref, table)
		require.Equal(t, "#/components/schemas/User", ref.Ref)
		require.Same(t, user, table["User"])
	})
}
