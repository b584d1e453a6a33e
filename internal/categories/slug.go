package categories

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	pkgerrors "github.com/trampala/trampala-backend/pkg/errors"
)

const maxSlugAttempts = 50

var turkishSlugReplacer = strings.NewReplacer(
	"ç", "c", "ğ", "g", "ı", "i", "ö", "o", "ş", "s", "ü", "u",
	"Ç", "c", "Ğ", "g", "İ", "i", "Ö", "o", "Ş", "s", "Ü", "u",
)

// Slugify lowercases the name and collapses every non-alphanumeric run into
// a single hyphen.
func Slugify(name string) string {
	normalized := strings.ToLower(turkishSlugReplacer.Replace(name))

	var b strings.Builder
	lastHyphen := true
	for _, r := range normalized {
		switch {
		case unicode.IsLetter(r) && r < unicode.MaxASCII, unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

type slugChecker interface {
	SlugExists(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
}

// uniqueSlug probes base, base-1, base-2, ... until a free slug is found.
// excludeID keeps the record being updated out of the collision check.
func uniqueSlug(ctx context.Context, repo slugChecker, base string, excludeID *uuid.UUID) (string, error) {
	if base == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "name produces an empty slug")
	}

	candidate := base
	for i := 1; i <= maxSlugAttempts; i++ {
		taken, err := repo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check slug")
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not find a free slug")
}
