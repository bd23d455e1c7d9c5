package typesense

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHospitalSchema(t *testing.T) {
	schema := HospitalSchema()

	assert.Equal(t, HospitalsCollection, schema.Name)
	require.NotNil(t, schema.DefaultSortingField)
	assert.Equal(t, "estimated_wait_time", *schema.DefaultSortingField)

	types := map[string]string{}
	for _, f := range schema.Fields {
		types[f.Name] = f.Type
	}
	assert.Equal(t, "string[]", types["specialties"])
	assert.Equal(t, "geopoint", types["location"])
	assert.Equal(t, "float", types["distance"])
}
