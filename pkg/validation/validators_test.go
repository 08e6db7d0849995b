package validation_test

import (
	"testing"

	"go-cvnetwork-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type nameField struct {
	Name string `validate:"valid_name"`
}

type postalField struct {
	Code string `validate:"valid_postal_code"`
}

type emojiField struct {
	Text string `validate:"no_emoji"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterValidators(v)
	return v
}

func TestValidName(t *testing.T) {
	v := newValidator()

	valid := []string{"Anna-Karin", "O'Brien", "Jean d'Arc", "Smith & Sons (HQ)", "Müller", ""}
	for _, name := range valid {
		assert.NoError(t, v.Struct(nameField{Name: name}), name)
	}

	invalid := []string{"<script>", "name;drop", "tab\there"}
	for _, name := range invalid {
		assert.Error(t, v.Struct(nameField{Name: name}), name)
	}
}

func TestValidPostalCode(t *testing.T) {
	v := newValidator()

	valid := []string{"12345", "123 45", "SW1A 1AA", "90210-1234", ""}
	for _, code := range valid {
		assert.NoError(t, v.Struct(postalField{Code: code}), code)
	}

	invalid := []string{"1", "12345678901234", "12_45"}
	for _, code := range invalid {
		assert.Error(t, v.Struct(postalField{Code: code}), code)
	}
}

func TestNoEmoji(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.Struct(emojiField{Text: "Backend developer in Malmö"}))
	assert.Error(t, v.Struct(emojiField{Text: "Great job 🎉"}))
	assert.Error(t, v.Struct(emojiField{Text: "look ☀ here"}))
}
