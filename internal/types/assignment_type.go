package types

// AssignmentType is one entry of a class's event-type taxonomy. Required
// types stay checked; the user may append arbitrary non-required types.
type AssignmentType struct {
	Name     string `json:"name"`
	Checked  bool   `json:"checked"`
	Required bool   `json:"required"`
}

// DefaultAssignmentTypes seeds every new class. Exam and Lecture always
// exist and cannot be unchecked.
func DefaultAssignmentTypes() []AssignmentType {
	return []AssignmentType{
		{Name: "Exam", Checked: true, Required: true},
		{Name: "Lecture", Checked: true, Required: true},
		{Name: "Homework", Checked: false, Required: false},
		{Name: "Project", Checked: false, Required: false},
	}
}
