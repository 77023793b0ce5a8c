package generation

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
)

// Issue records a vocabulary entry that could not be fully turned into tasks.
// Issues never abort a batch.
type Issue struct {
	VocabularyID uuid.UUID
	Word         string
	Reason       string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s: vocabulary %q (%s): %s", domain.ErrDataIncomplete, i.Word, i.VocabularyID, i.Reason)
}

// Unwrap lets errors.Is match domain.ErrDataIncomplete.
func (i Issue) Unwrap() error {
	return domain.ErrDataIncomplete
}

const (
	reasonNoWord              = "no word"
	reasonNoTranslation       = "no translation"
	reasonInsufficientOptions = "fewer than 3 distractor candidates, padded with placeholders"
)
