package config

import "testing"

func TestEnvHelpers(t *testing.T) {
	t.Setenv("VIGIL_TEST_STR", "hello")
	t.Setenv("VIGIL_TEST_INT", "42")
	t.Setenv("VIGIL_TEST_FLOAT", "0.27")
	t.Setenv("VIGIL_TEST_BOOL", "false")
	t.Setenv("VIGIL_TEST_BAD", "not-a-number")

	if got := Env("VIGIL_TEST_STR", "def"); got != "hello" {
		t.Errorf("Env = %q", got)
	}
	if got := Env("VIGIL_TEST_MISSING", "def"); got != "def" {
		t.Errorf("Env default = %q", got)
	}
	if got := EnvInt("VIGIL_TEST_INT", 7); got != 42 {
		t.Errorf("EnvInt = %d", got)
	}
	if got := EnvInt("VIGIL_TEST_BAD", 7); got != 7 {
		t.Errorf("EnvInt bad value = %d, want default", got)
	}
	if got := EnvFloat("VIGIL_TEST_FLOAT", 0.5); got != 0.27 {
		t.Errorf("EnvFloat = %v", got)
	}
	if got := EnvBool("VIGIL_TEST_BOOL", true); got != false {
		t.Errorf("EnvBool = %v", got)
	}
	if got := EnvBool("VIGIL_TEST_BAD", true); got != true {
		t.Errorf("EnvBool bad value = %v, want default", got)
	}
}
