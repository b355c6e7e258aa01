package model

// Default dimensions per shape type, in pixels. Shapes imported without a
// size receive these during resolution.
var defaultSizes = map[string]Size{
	TypeStartEvent:        {Width: 36, Height: 36},
	TypeEndEvent:          {Width: 36, Height: 36},
	TypeIntermediateEvent: {Width: 36, Height: 36},
	TypeBoundaryEvent:     {Width: 36, Height: 36},
	TypeTask:              {Width: 120, Height: 80},
	TypeUserTask:          {Width: 120, Height: 80},
	TypeServiceTask:       {Width: 120, Height: 80},
	TypeScriptTask:        {Width: 120, Height: 80},
	TypeCallActivity:      {Width: 120, Height: 80},
	TypeSubProcess:        {Width: 350, Height: 200},
	TypeExclusiveGateway:  {Width: 50, Height: 50},
	TypeParallelGateway:   {Width: 50, Height: 50},
	TypeInclusiveGateway:  {Width: 50, Height: 50},
	TypeEventGateway:      {Width: 50, Height: 50},
	TypeDataObject:        {Width: 36, Height: 50},
	TypeDataStore:         {Width: 60, Height: 60},
	TypeTextAnnotation:    {Width: 100, Height: 30},
}

// genericSize is used for shape types without a dedicated entry.
var genericSize = Size{Width: 120, Height: 80}

// DefaultSize returns the default dimensions for a shape type.
// Unknown types get generic task dimensions.
func DefaultSize(shapeType string) Size {
	if sz, ok := defaultSizes[shapeType]; ok {
		return sz
	}
	return genericSize
}

// SizeOrDefault returns the shape's declared size, falling back to its
// type's defaults.
func (s *Shape) SizeOrDefault() Size {
	if s.Size != nil {
		return *s.Size
	}
	return DefaultSize(s.Type)
}
