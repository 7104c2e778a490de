package fields

import (
	"fmt"
	"os"

	"gopnad/domain/survey"

	"gopkg.in/yaml.v3"
)

// Override declares an extra raw field in a YAML fields file:
//
//	person:
//	  - name: income_rent_2
//	    description: Rent from a second property
//	    income: true
//	    sources:
//	      "1992-": V1267
//	      "-1990": null
type Override struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Income      bool                   `yaml:"income"`
	Missing     []float64              `yaml:"missing"`
	Sources     map[string]interface{} `yaml:"sources"`
}

// OverrideFile is the document layout of a fields file.
type OverrideFile struct {
	Person    []Override `yaml:"person"`
	Household []Override `yaml:"household"`
}

// Field builds the raw field described by o.
func (o Override) Field() (Field, error) {
	if o.Name == "" {
		return nil, fmt.Errorf("field override without a name")
	}
	if len(o.Sources) == 0 {
		return nil, fmt.Errorf("field override %q has no sources", o.Name)
	}
	spec := make(survey.Spec[Source], 0, len(o.Sources))
	for key, value := range o.Sources {
		r, err := survey.ParseRange(key)
		if err != nil {
			return nil, fmt.Errorf("field override %q: %w", o.Name, err)
		}
		var src Source
		switch v := value.(type) {
		case nil:
		case string:
			src.Var = v
		case int:
			src = Source{Const: true, Value: float64(v)}
		case float64:
			src = Source{Const: true, Value: v}
		default:
			return nil, fmt.Errorf("field override %q: unsupported source %v for %q", o.Name, value, key)
		}
		spec = append(spec, survey.Entry[Source]{Range: r, Value: src})
	}
	if o.Income {
		f := NewIncomeField(o.Name, o.Description, spec)
		if len(o.Missing) > 0 {
			f.missing = append(f.missing, o.Missing...)
		}
		return f, nil
	}
	return NewRawField(o.Name, o.Description, spec, o.Missing...), nil
}

// ParseOverrides decodes a fields file.
func ParseOverrides(data []byte) (*OverrideFile, error) {
	var doc OverrideFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fields file: %w", err)
	}
	return &doc, nil
}

// Apply registers every override into cs, replacing built-in fields with
// the same name.
func (doc *OverrideFile) Apply(cs Catalogs) error {
	for kind, list := range map[survey.Kind][]Override{survey.Person: doc.Person, survey.Household: doc.Household} {
		if len(list) == 0 {
			continue
		}
		c, err := cs.For(kind)
		if err != nil {
			return err
		}
		for _, o := range list {
			f, err := o.Field()
			if err != nil {
				return err
			}
			c.Register(f)
		}
	}
	return nil
}

// LoadOverrides reads a fields file from disk and applies it to cs.
func LoadOverrides(path string, cs Catalogs) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fields file: %w", err)
	}
	doc, err := ParseOverrides(data)
	if err != nil {
		return err
	}
	return doc.Apply(cs)
}
