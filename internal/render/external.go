package render

import (
	"bytes"
	"os/exec"

	"github.com/rohankatakam/incgraph/internal/ierrors"
)

// ExternalDOTRenderer shells out to a `dot`-compatible Graphviz binary
// to rasterize DOT source into SVG or PNG bytes. When the binary
// isn't on PATH this returns ierrors.ExternalRendererMissing so the
// caller can fall back to SimpleSVGSink for svg output (spec §6: PNG
// has no built-in fallback and surfaces the error directly).
type ExternalDOTRenderer struct {
	// Binary is the Graphviz executable name or path; defaults to "dot".
	Binary string
}

func (r ExternalDOTRenderer) binary() string {
	if r.Binary != "" {
		return r.Binary
	}
	return "dot"
}

// Render shells `dot -T<format>` over dotSource and returns the
// rendered bytes.
func (r ExternalDOTRenderer) Render(dotSource []byte, format string) ([]byte, error) {
	bin := r.binary()
	if _, err := exec.LookPath(bin); err != nil {
		return nil, ierrors.ExternalRendererMissingf("graphviz binary %q not found on PATH", bin)
	}

	cmd := exec.Command(bin, "-T"+format)
	cmd.Stdin = bytes.NewReader(dotSource)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, ierrors.Wrap(err, ierrors.ExternalRendererMissing, "dot render failed: "+stderr.String())
	}
	return out.Bytes(), nil
}
