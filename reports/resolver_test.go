package reports

import (
	"testing"

	"github.com/moh-ammad/exceltovisual/models"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolver(t *testing.T) {
	ann := models.User{ID: primitive.NewObjectID(), Name: "José Núñez", Email: "ann@x.com"}
	bob := models.User{ID: primitive.NewObjectID(), Name: "Bob", Email: "bob@x.com"}
	bob2 := models.User{ID: primitive.NewObjectID(), Name: "bob", Email: "bob2@x.com"}
	r := NewResolver([]models.User{ann, bob, bob2})

	id, err := r.Resolve("ANN@x.com")
	require.NoError(t, err)
	require.Equal(t, ann.ID, id)

	id, err = r.Resolve("  jose   nunez ")
	require.NoError(t, err)
	require.Equal(t, ann.ID, id)

	_, err = r.Resolve("Bob")
	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, 2, refErr.Matches)
	require.Contains(t, err.Error(), "ambiguous")

	_, err = r.Resolve("carol@x.com")
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, "carol@x.com", refErr.Token)
	require.Contains(t, err.Error(), "not found")
}

func TestResolver_ResolveList(t *testing.T) {
	a := models.User{ID: primitive.NewObjectID(), Name: "A", Email: "a@x.com"}
	r := NewResolver([]models.User{a})

	ids, errs := r.ResolveList("a@x.com, , A@X.COM, unknown@x.com")
	require.Equal(t, []primitive.ObjectID{a.ID}, ids)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "unknown@x.com")

	// email and name naming the same user collapse to one id
	ids, errs = r.ResolveList("a@x.com, A")
	require.Empty(t, errs)
	require.Equal(t, []primitive.ObjectID{a.ID}, ids)

	ids, errs = r.ResolveList(" , ")
	require.Empty(t, ids)
	require.Empty(t, errs)
}
