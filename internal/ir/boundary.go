package ir

// InputModel is the model of the global input layer. It only produces values:
// the only way to declare ports on it is AttachSources, and every port is
// fixed to a single instance.
type InputModel struct {
	core
}

// NewInputModel creates an input boundary model with the given source ports.
func NewInputModel(name string, sources ...*Variable) (*InputModel, error) {
	m := &InputModel{core: newCore("InputModel", name)}
	m.self = m
	if err := m.AttachSources(sources...); err != nil {
		return nil, err
	}
	return m, nil
}

// AttachSources declares source ports on the boundary.
func (m *InputModel) AttachSources(vars ...*Variable) error {
	return m.attachVariables(Source, vars, true)
}

// OutputModel is the model of the global output layer. It only consumes
// values through ports declared with AttachSinks.
type OutputModel struct {
	core
}

// NewOutputModel creates an output boundary model with the given consumer ports.
func NewOutputModel(name string, sinks ...*Variable) (*OutputModel, error) {
	m := &OutputModel{core: newCore("OutputModel", name)}
	m.self = m
	if err := m.AttachSinks(sinks...); err != nil {
		return nil, err
	}
	return m, nil
}

// AttachSinks declares consumer ports on the boundary.
func (m *OutputModel) AttachSinks(vars ...*Variable) error {
	return m.attachVariables(Consumer, vars, true)
}
