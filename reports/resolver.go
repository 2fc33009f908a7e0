package reports

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/moh-ammad/exceltovisual/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ReferenceError is a user reference that did not resolve to exactly one user.
type ReferenceError struct {
	Token   string
	Matches int
}

func (e *ReferenceError) Error() string {
	if e.Matches > 1 {
		return fmt.Sprintf("ambiguous reference %q matches %d users", e.Token, e.Matches)
	}
	return fmt.Sprintf("user %q not found", e.Token)
}

// Resolver maps emails and display names to user IDs for one import batch.
// It is read-only after construction and safe for concurrent lookups.
type Resolver struct {
	byEmail map[string]primitive.ObjectID
	byName  map[string][]primitive.ObjectID
}

func NewResolver(users []models.User) *Resolver {
	r := &Resolver{
		byEmail: make(map[string]primitive.ObjectID, len(users)),
		byName:  make(map[string][]primitive.ObjectID, len(users)),
	}
	for _, u := range users {
		if email := strings.ToLower(strings.TrimSpace(u.Email)); email != "" {
			r.byEmail[email] = u.ID
		}
		key := foldName(u.Name)
		if key == "" || containsID(r.byName[key], u.ID) {
			continue
		}
		r.byName[key] = append(r.byName[key], u.ID)
	}
	return r
}

// Resolve looks a token up by email when it contains "@", by name otherwise.
func (r *Resolver) Resolve(token string) (primitive.ObjectID, error) {
	token = strings.TrimSpace(token)
	if strings.Contains(token, "@") {
		if id, ok := r.byEmail[strings.ToLower(token)]; ok {
			return id, nil
		}
		return primitive.NilObjectID, &ReferenceError{Token: token}
	}
	ids := r.byName[foldName(token)]
	if len(ids) != 1 {
		return primitive.NilObjectID, &ReferenceError{Token: token, Matches: len(ids)}
	}
	return ids[0], nil
}

// ResolveList resolves a comma-separated cell. Blank and repeated tokens are
// dropped; every token that fails yields its own error.
func (r *Resolver) ResolveList(raw string) ([]primitive.ObjectID, []error) {
	var (
		ids  []primitive.ObjectID
		errs []error
		seen = map[string]bool{}
	)
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		key := strings.ToLower(token)
		if seen[key] {
			continue
		}
		seen[key] = true

		id, err := r.Resolve(token)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !containsID(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, errs
}

// foldName strips accents, collapses whitespace and case-folds, so
// "José  Núñez" and "jose nunez" compare equal. Transformers carry state,
// so a fresh chain is built per call.
func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(strings.Join(strings.Fields(out), " "))
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
