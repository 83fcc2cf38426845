package renderer

import "fmt"

// queue holds the objects submitted for one frame.
type queue struct {
	regular     []RegularObject
	points      []PointLightObject
	directional []DirectionalLightObject
	debug       []DebugObject
}

// validate checks the light counts and the submitted references.
func (q *queue) validate() error {
	if len(q.directional) != 1 || len(q.points) != 1 {
		return fmt.Errorf("%w: got %d directional and %d point lights", ErrLightCount, len(q.directional), len(q.points))
	}
	for _, o := range q.regular {
		if err := o.validate(); err != nil {
			return err
		}
	}
	for _, o := range q.points {
		if err := o.validate(); err != nil {
			return err
		}
	}
	for _, o := range q.directional {
		if err := o.validate(); err != nil {
			return err
		}
	}
	for _, o := range q.debug {
		if err := o.validate(); err != nil {
			return err
		}
	}
	return nil
}

// reset empties the queues, dropping the caller's references but keeping
// the backing arrays for the next frame.
func (q *queue) reset() {
	clear(q.regular)
	q.regular = q.regular[:0]
	clear(q.points)
	q.points = q.points[:0]
	clear(q.directional)
	q.directional = q.directional[:0]
	clear(q.debug)
	q.debug = q.debug[:0]
}

func (q *queue) empty() bool {
	return len(q.regular) == 0 && len(q.points) == 0 && len(q.directional) == 0 && len(q.debug) == 0
}
