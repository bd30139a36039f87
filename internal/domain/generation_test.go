package domain

import (
	"errors"
	"testing"
)

func validInput() GenerationInput {
	return GenerationInput{
		GenerationID:   "gen-1",
		Prompt:         "warm synthwave",
		Device:         "cuda",
		GenerationTime: 8.4,
		FileSizeMB:     2.1,
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	in := validInput()
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if in.Status != StatusCompleted {
		t.Errorf("expected default status completed, got %q", in.Status)
	}
	if in.Precision != DefaultPrecision {
		t.Errorf("expected default precision, got %q", in.Precision)
	}
	if in.RealtimeFactor != DefaultRealtimeFactor {
		t.Errorf("expected default realtime factor, got %v", in.RealtimeFactor)
	}
	if in.Duration != DefaultDuration || in.SampleRate != DefaultSampleRate {
		t.Errorf("expected default duration/sample rate, got %v/%d", in.Duration, in.SampleRate)
	}
	if in.ModelVersion != DefaultModelVersion {
		t.Errorf("expected default model version, got %q", in.ModelVersion)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*GenerationInput)
	}{
		{"generation_id", func(in *GenerationInput) { in.GenerationID = "" }},
		{"prompt", func(in *GenerationInput) { in.Prompt = "" }},
		{"device", func(in *GenerationInput) { in.Device = "" }},
		{"generation_time", func(in *GenerationInput) { in.GenerationTime = 0 }},
		{"file_size_mb", func(in *GenerationInput) { in.FileSizeMB = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			err := in.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, ve.Field)
			}
		})
	}
}

func TestValidateResetsNonPositiveRealtimeFactor(t *testing.T) {
	in := validInput()
	in.RealtimeFactor = -0.5
	if err := in.Validate(); err != nil {
		t.Fatalf("a bad realtime factor must not reject the input: %v", err)
	}
	if in.RealtimeFactor != 1.0 {
		t.Errorf("expected reset to 1.0, got %v", in.RealtimeFactor)
	}
}

func TestValidateRejectsUnknownStatus(t *testing.T) {
	in := validInput()
	in.Status = "archived"
	err := in.Validate()
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "status" {
		t.Fatalf("expected status validation error, got %v", err)
	}
}

func TestValidateKeepsExplicitValues(t *testing.T) {
	in := validInput()
	in.Status = StatusFailed
	in.Precision = "float16"
	in.SampleRate = 44100
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if in.Status != StatusFailed || in.Precision != "float16" || in.SampleRate != 44100 {
		t.Errorf("explicit values overwritten: %+v", in)
	}
}
