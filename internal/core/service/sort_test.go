package service

import (
	"reflect"
	"testing"

	"github.com/taskboard/task-api/internal/core/ports"
)

func TestParseTaskSort(t *testing.T) {
	cases := []struct {
		spec string
		want []ports.SortField
	}{
		{"", []ports.SortField{{Field: "createdAt", Desc: true}}},
		{"-createdAt", []ports.SortField{{Field: "createdAt", Desc: true}}},
		{"dueDate", []ports.SortField{{Field: "dueDate"}}},
		{"dueDate -priority", []ports.SortField{{Field: "dueDate"}, {Field: "priority", Desc: true}}},
		{"title,-updatedAt", []ports.SortField{{Field: "title"}, {Field: "updatedAt", Desc: true}}},
		{"password", []ports.SortField{{Field: "createdAt", Desc: true}}},
		{"status,status", []ports.SortField{{Field: "status"}}},
		{"+title", []ports.SortField{{Field: "title"}}},
	}

	for _, tc := range cases {
		t.Run(tc.spec, func(t *testing.T) {
			if got := parseTaskSort(tc.spec); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("parseTaskSort(%q) = %+v, want %+v", tc.spec, got, tc.want)
			}
		})
	}
}
