package catalog

import "context"

// QueryService provides read-only queries over a Source.
// Not-found outcomes are reported through the bool result, never as errors.
type QueryService struct {
	src Source
}

// NewQueryService creates a QueryService over src.
func NewQueryService(src Source) *QueryService {
	return &QueryService{src: src}
}

// List returns every component, or those of one category. An empty category
// or "all" lists everything.
func (q *QueryService) List(ctx context.Context, category string) ([]ComponentInfo, error) {
	return BuildAll(ctx, q.src, category)
}

// Get returns one component.
func (q *QueryService) Get(ctx context.Context, name string) (ComponentInfo, bool, error) {
	return q.src.Build(ctx, name)
}

// GetPart returns one part of a component. ok is false when either the
// component or the part is missing; use Get first to tell them apart.
func (q *QueryService) GetPart(ctx context.Context, name, part string) (ComponentPart, bool, error) {
	info, ok, err := q.src.Build(ctx, name)
	if err != nil || !ok {
		return ComponentPart{}, false, err
	}
	p, ok := info.Part(part)
	return p, ok, nil
}

// GetExamples returns the examples of a component, optionally restricted to
// one variant. An empty variant returns all of them.
func (q *QueryService) GetExamples(ctx context.Context, name string, variant Variant) ([]UsageExample, bool, error) {
	info, ok, err := q.src.Build(ctx, name)
	if err != nil || !ok {
		return nil, false, err
	}

	examples := make([]UsageExample, 0, len(info.Composition.Examples))
	for _, ex := range info.Composition.Examples {
		if variant == "" || ex.Variant == variant {
			examples = append(examples, ex)
		}
	}
	return examples, true, nil
}
