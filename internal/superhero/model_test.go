package superhero

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestNameColumnHoldsPaddedNames(t *testing.T) {
	s, err := schema.Parse(&Superhero{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	name := s.LookUpField("Name")
	require.NotNil(t, name)
	assert.Equal(t, schema.DataType("text"), name.DataType)
	assert.Zero(t, name.Size)

	padded := "  " + strings.Repeat("a", 50) + "  "
	in, err := NewValidator().ValidateCreate(RawCreate{Name: padded, Superpower: "ok", HumilityScore: json.Number("3")})
	require.NoError(t, err)
	assert.Equal(t, padded, in.toModel().Name)
}

func TestSuperpowerColumnFitsLongestAcceptedValue(t *testing.T) {
	s, err := schema.Parse(&Superhero{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field := s.LookUpField("Superpower")
	require.NotNil(t, field)
	assert.Equal(t, schema.DataType("varchar(200)"), field.DataType)

	_, err = NewValidator().ValidateCreate(RawCreate{Name: "Hero", Superpower: strings.Repeat("x", 201), HumilityScore: json.Number("3")})
	assert.Error(t, err, "anything longer than the column is rejected before insert")
}
