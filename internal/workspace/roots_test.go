package workspace

import "testing"

func TestFind(t *testing.T) {
	r := NewRoots()
	r.Add("/proj")
	r.Add("/proj/sub/")

	tests := []struct {
		uri    string
		want   string
		wantOK bool
	}{
		{"/proj/a.txt", "/proj", true},
		{"/proj/sub/b.txt", "/proj/sub", true},
		{"/projother/c.txt", "", false},
		{"/elsewhere/d.txt", "", false},
		{"/proj", "/proj", true},
	}

	for _, tt := range tests {
		got, ok := r.Find(tt.uri)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Find(%q) = %q, %v, want %q, %v", tt.uri, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRemove(t *testing.T) {
	r := NewRoots()
	r.Add("/proj")
	r.Remove("/proj/")

	if _, ok := r.Find("/proj/a.txt"); ok {
		t.Error("Find should miss after Remove")
	}
	if len(r.All()) != 0 {
		t.Errorf("All = %v, want empty", r.All())
	}
}
