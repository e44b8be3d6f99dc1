package softlayer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryFilter(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"2048", 2048},
		{" 4 ", 4},
		{">= 2048", ">= 2048"},
		{">=2048", ">= 2048"},
		{"<= 4", "<= 4"},
		{"< 4", "< 4"},
		{"*web*", "~ web"},
		{"*.example.com", "$= .example.com"},
		{"web*", "^= web"},
		{"dal05", "_= dal05"},
		{"!~ test", "!~ test"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, map[string]interface{}{"operation": tt.expected}, QueryFilter(tt.input))
		})
	}
}

func TestFilter_SetNested(t *testing.T) {
	f := Filter{}
	f.Set("virtualGuests.hostname", QueryFilter("web01")).
		Set("virtualGuests.datacenter.name", QueryFilter("dal05")).
		Set("virtualGuests.tagReferences.tag.name", InFilter([]string{"prod", "db"}))

	data, err := json.Marshal(f)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"virtualGuests": {
			"hostname": {"operation": "_= web01"},
			"datacenter": {"name": {"operation": "_= dal05"}},
			"tagReferences": {"tag": {"name": {"operation": "in", "options": [{"name": "data", "value": ["prod", "db"]}]}}}
		}
	}`, string(data))
	assert.False(t, f.Empty())
	assert.True(t, Filter{}.Empty())
}

func TestExactFilter(t *testing.T) {
	assert.Equal(t, map[string]interface{}{"operation": "10.0.0.1"}, ExactFilter("10.0.0.1"))
}
