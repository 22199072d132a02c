package converter

import "testing"

func TestOptionValidate(t *testing.T) {
	for _, s := range []float64{MinGlobalScale, 1, MaxGlobalScale} {
		o := &SceneToC3TOption{GlobalScale: s}
		if err := o.Validate(); err != nil {
			t.Error("rejected: ", s, err)
		}
	}
	for _, s := range []float64{0.001, -1, 1000.5} {
		o := &SceneToC3TOption{GlobalScale: s}
		if err := o.Validate(); err == nil {
			t.Error("accepted: ", s)
		}
	}
}

func TestConverterDefaults(t *testing.T) {
	conv := NewSceneToC3TConverter(nil)
	if conv.GlobalScale != 1 {
		t.Error("scale: ", conv.GlobalScale)
	}
	if conv.Logger == nil {
		t.Error("logger not defaulted")
	}
	if conv.Document == nil || conv.Document.Version != "0.7" {
		t.Error("document: ", conv.Document)
	}
}
