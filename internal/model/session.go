package model

// Session describes a playground submission on disk.
type Session struct {
	Source     Path        `yaml:"source" validate:"required"`
	Test       Path        `yaml:"test" validate:"required"`
	References []Reference `yaml:"references,omitempty" validate:"dive"`
	Imports    []string    `yaml:"imports,omitempty" validate:"dive,required"`
}
