package workspace

import "github.com/xnmeet/evem/internal/domain/entities"

// ToolDetector recognises one workspace layout and reports the globs locating its packages.
type ToolDetector interface {
	Kind() entities.ToolKind

	// Detect reports whether rootDir uses this tool and, if so, its package globs.
	Detect(rootDir string) ([]string, bool, error)
}

// DetectorRegistry keeps the registered detectors in priority order.
type DetectorRegistry struct {
	detectors map[entities.ToolKind]ToolDetector
	order     []entities.ToolKind
}

// NewDetectorRegistry creates an empty detector registry.
func NewDetectorRegistry() *DetectorRegistry {
	return &DetectorRegistry{
		detectors: make(map[entities.ToolKind]ToolDetector),
	}
}

// NewDefaultDetectorRegistry registers pnpm, yarn, npm, lerna, rush and the single-package
// fallback. Package manager workspaces win over a lerna.json that delegates to them.
func NewDefaultDetectorRegistry() *DetectorRegistry {
	reg := NewDetectorRegistry()
	reg.Register(&pnpmDetector{})
	reg.Register(&yarnDetector{})
	reg.Register(&npmDetector{})
	reg.Register(&lernaDetector{})
	reg.Register(&rushDetector{})
	reg.Register(&rootDetector{})
	return reg
}

// Register adds a detector under its kind. Re-registering a kind keeps its priority.
func (r *DetectorRegistry) Register(d ToolDetector) {
	if _, ok := r.detectors[d.Kind()]; !ok {
		r.order = append(r.order, d.Kind())
	}
	r.detectors[d.Kind()] = d
}

// Get returns the detector of the given kind, or nil if not registered.
func (r *DetectorRegistry) Get(kind entities.ToolKind) ToolDetector {
	return r.detectors[kind]
}

// All returns every registered detector in priority order.
func (r *DetectorRegistry) All() []ToolDetector {
	result := make([]ToolDetector, 0, len(r.order))
	for _, kind := range r.order {
		result = append(result, r.detectors[kind])
	}
	return result
}

// Names returns the registered tool kinds in priority order.
func (r *DetectorRegistry) Names() []entities.ToolKind {
	return append([]entities.ToolKind(nil), r.order...)
}

// Detect runs the detectors in order and returns the first match.
func (r *DetectorRegistry) Detect(rootDir string) (entities.ToolKind, []string, error) {
	for _, detector := range r.All() {
		globs, ok, err := detector.Detect(rootDir)
		if err != nil {
			return "", nil, err
		}
		if ok {
			return detector.Kind(), globs, nil
		}
	}
	return entities.ToolRoot, nil, nil
}
