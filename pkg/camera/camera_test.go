package camera

import "testing"

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(s *Settings) {}, false},
		{"negative device", func(s *Settings) { s.DeviceID = -1 }, true},
		{"tiny resolution", func(s *Settings) { s.Width = 10 }, true},
		{"zero fps", func(s *Settings) { s.FPS = 0 }, true},
		{"quality out of range", func(s *Settings) { s.Quality = 150 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			errs := s.Validate()
			if tt.wantErr && len(errs) == 0 {
				t.Error("expected validation errors, got none")
			}
			if !tt.wantErr && len(errs) > 0 {
				t.Errorf("unexpected validation errors: %v", errs)
			}
		})
	}
}
