package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]any{"id": 1})
	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something went wrong")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something went wrong", resp.Error)
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Username string `validate:"required,min=3"`
		Role     string `validate:"oneof=Admin Editor Viewer"`
		Qty      int    `validate:"gte=0"`
	}

	validate := validator.New()
	err := validate.Struct(payload{Username: "", Role: "Boss", Qty: -1})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Username is a required field")
	assert.Contains(t, resp.Error, "field Role has an unsupported value")
	assert.Contains(t, resp.Error, "field Qty must not be negative")
}
