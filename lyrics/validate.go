package lyrics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks song supplied from outside before it is encoded. Shape
// problems (missing titles, empty lines and such) come from struct tags,
// content problems are reported per line as *LineError.
func Validate(song *Song) error {
	if song == nil {
		return fmt.Errorf("nil song")
	}
	if err := validate.Struct(song); err != nil {
		return formatValidationError(err)
	}

	var errs error
	for _, group := range []struct {
		kind SectionKind
		secs []Section
	}{
		{SectionVerse, song.Verses},
		{SectionInstrument, song.Instruments},
	} {
		for i := range group.secs {
			errs = multierr.Append(errs, validateSection(&group.secs[i], group.kind))
		}
	}
	return errs
}

func validateSection(sec *Section, kind SectionKind) error {
	var errs error
	for i := range sec.Lines {
		for _, item := range sec.Lines[i].Content {
			if err := validateItem(&item, kind); err != nil {
				errs = multierr.Append(errs, &LineError{Section: sec.Name, Kind: kind, Line: i + 1, Err: err})
				break
			}
		}
	}
	return errs
}

func validateItem(item *ContentItem, kind SectionKind) error {
	if err := checkKind(item.Kind, kind); err != nil {
		return err
	}
	switch item.Kind {
	case ContentChord:
		if item.Chord == nil {
			return fmt.Errorf("chord item without chord")
		}
	case ContentBeat:
		if len(item.Beat) == 0 {
			return fmt.Errorf("beat without chords")
		}
		for i := range item.Beat {
			if item.Beat[i].Value != nil {
				return fmt.Errorf("chord %d in beat spans text", i+1)
			}
		}
	case ContentTag:
		if item.Name == "" {
			return fmt.Errorf("tag without name")
		}
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required", "min":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Namespace()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", e.Namespace(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", e.Namespace(), e.Tag()))
		}
	}
	return fmt.Errorf("invalid song: %s", strings.Join(msgs, "; "))
}
