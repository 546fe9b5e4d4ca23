package model

import "fmt"

// Category groups tasks by area (work, personal, study, etc.).
// Two categories with the same name are still distinct entries.
type Category struct {
	Name string
}

func NewCategory(name string) *Category {
	return &Category{Name: name}
}

func (c *Category) String() string {
	return fmt.Sprintf("Category(name=%s)", c.Name)
}
