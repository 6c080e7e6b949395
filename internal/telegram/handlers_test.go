package telegram

import "testing"

func TestGroupRegisterReply(t *testing.T) {
	tests := []struct {
		name  string
		added bool
		want  string
	}{
		{"first registration confirms", true, "✅ Группа добавлена в список рассылки"},
		{"repeated registration is reported", false, "Группа уже добавлена."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := groupRegisterReply(tt.added); got != tt.want {
				t.Errorf("groupRegisterReply(%v) = %q, want %q", tt.added, got, tt.want)
			}
		})
	}
}
