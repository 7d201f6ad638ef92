package domain

// Agent maps a human display name to the backend user id.
type Agent struct {
	Name string `yaml:"name"`
	ID   int64  `yaml:"id"`
}
