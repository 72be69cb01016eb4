package shell

import "testing"

func hasKind(reports []ConstructReport, kind string) bool {
	for _, r := range reports {
		if r.Kind == kind {
			return true
		}
	}
	return false
}

func TestDetectUnsupportedConstructs_PlainCommand(t *testing.T) {
	if reports := DetectUnsupportedConstructs("echo hello world"); len(reports) != 0 {
		t.Errorf("expected no reports for a plain command, got %#v", reports)
	}
}

func TestDetectUnsupportedConstructs_Pipeline(t *testing.T) {
	if reports := DetectUnsupportedConstructs("echo hi | grep h"); len(reports) != 0 {
		t.Errorf("a plain pipeline is supported directly, got %#v", reports)
	}
}

func TestDetectUnsupportedConstructs_CommandSubstitution(t *testing.T) {
	reports := DetectUnsupportedConstructs("echo $(date)")
	if !hasKind(reports, "command-substitution") {
		t.Errorf("expected command-substitution, got %#v", reports)
	}
}

func TestDetectUnsupportedConstructs_Background(t *testing.T) {
	reports := DetectUnsupportedConstructs("sleep 10 &")
	if !hasKind(reports, "background-job") {
		t.Errorf("expected background-job, got %#v", reports)
	}
}

func TestDetectUnsupportedConstructs_AndList(t *testing.T) {
	reports := DetectUnsupportedConstructs("make && make test")
	if !hasKind(reports, "command-list") {
		t.Errorf("expected command-list, got %#v", reports)
	}
}

func TestDetectUnsupportedConstructs_Subshell(t *testing.T) {
	reports := DetectUnsupportedConstructs("(cd /tmp && ls)")
	if !hasKind(reports, "subshell") {
		t.Errorf("expected subshell, got %#v", reports)
	}
}

func TestDetectUnsupportedConstructs_EmptyLine(t *testing.T) {
	if reports := DetectUnsupportedConstructs("   "); reports != nil {
		t.Errorf("expected nil for blank input, got %#v", reports)
	}
}
