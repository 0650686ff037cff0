package visual

import (
	"errors"

	"github.com/cornish/visualnav/dom"
	"github.com/cornish/visualnav/log"
)

// Capabilities records which granularities the document's engine can move
// the selection by. It is probed once and handed to the Navigator.
type Capabilities struct {
	Engine      string
	unsupported map[dom.Granularity]bool
}

// probeText exercises every unit: two sentences, two paragraphs.
const probeText = "<p>One two. Three four.</p><p>Five six.</p>"

// ProbeCapabilities runs Modify for every granularity on a scratch document
// using engine e and records the ones that fail with ErrNotSupported.
func ProbeCapabilities(e dom.Engine) Capabilities {
	caps := Capabilities{Engine: e.Name, unsupported: make(map[dom.Granularity]bool)}
	d, err := dom.ParseString(probeText)
	if err != nil {
		log.Warn("capability probe: parse failed", "err", err)
		return caps
	}
	d.SetEngine(e)
	p := d.Body().FirstChild
	if p == nil || p.FirstChild == nil {
		return caps
	}
	text := p.FirstChild
	sel := d.Selection()
	for g := dom.Character; g <= dom.DocumentBoundary; g++ {
		if err := sel.SetPosition(text, 4); err != nil {
			continue
		}
		if err := sel.Modify(dom.Extend, dom.Forward, g); errors.Is(err, dom.ErrNotSupported) {
			caps.unsupported[g] = true
			log.Debug("granularity unsupported", "engine", e.Name, "unit", g.String())
		}
	}
	return caps
}

// Supports reports whether the engine can modify the selection by g.
func (c Capabilities) Supports(g dom.Granularity) bool {
	return !c.unsupported[g]
}
