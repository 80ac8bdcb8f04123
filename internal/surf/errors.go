package surf

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrWaveConditionsUnavailable means the mandatory wave source was absent.
	ErrWaveConditionsUnavailable = errors.New("unable to fetch wave conditions")

	// ErrInvalidLocation means a location lacks an id or usable coordinates.
	ErrInvalidLocation = errors.New("invalid location")
)

var validate = validator.New()

// ValidateLocation fails fast on a location that no provider could query.
func ValidateLocation(loc Location) error {
	if err := validate.Struct(loc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	return nil
}
