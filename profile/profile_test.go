package profile

import "testing"

func TestConfigOptions(t *testing.T) {
	c := Config(nil).Apply(WithMode("cpu"), WithPath("/tmp/p"), WithQuiet(true))

	mode, path, quiet := c()
	if mode != "cpu" || path != "/tmp/p" || !quiet {
		t.Errorf("got (%q, %q, %v)", mode, path, quiet)
	}

	c = c.Apply(WithMode(""))
	if mode, path, _ := c(); mode != "" || path != "/tmp/p" {
		t.Errorf("mode not replaced: (%q, %q)", mode, path)
	}
}

func TestStartWithoutMode(t *testing.T) {
	p := Config(nil).Apply(WithPath(t.TempDir())).Start()
	if _, ok := p.(ignore); !ok {
		t.Errorf("Start without a mode returned %T", p)
	}

	p.Stop()
}
