package mock

// Fixture is the top-level structure of a YAML fixture file.
type Fixture struct {
	Methods []MethodConfig `yaml:"methods"`
}

// MethodConfig defines the canned behaviour of one remote method.
type MethodConfig struct {
	// Service is the SoftLayer service, e.g. SoftLayer_Virtual_Guest.
	Service string `yaml:"service"`
	// Method is the remote method, e.g. getObject.
	Method string `yaml:"method"`
	// Responses are tried in order; the first whose condition matches wins.
	Responses []MethodResponse `yaml:"responses"`
}

// MethodResponse is a conditional response for a mock method.
type MethodResponse struct {
	// Condition restricts this response to matching calls (optional).
	Condition *Condition `yaml:"condition,omitempty"`
	// Result is encoded as the JSON response body.
	Result interface{} `yaml:"result,omitempty"`
	// Error, when set, is returned as a SoftLayer error instead of Result.
	Error string `yaml:"error,omitempty"`
	// Code is the SoftLayer exception class sent with Error.
	Code string `yaml:"code,omitempty"`
	// Status is the HTTP status sent with Error. Defaults to 500.
	Status int `yaml:"status,omitempty"`
}

// Condition matches calls by object ID and by substrings of the object
// filter and mask.
type Condition struct {
	ID     int    `yaml:"id,omitempty"`
	Filter string `yaml:"filter,omitempty"`
	Mask   string `yaml:"mask,omitempty"`
}
