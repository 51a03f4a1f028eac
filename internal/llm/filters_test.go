package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tkohara/mercari-search-agent/internal/search"
)

func TestParseFilterResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    search.Filter
		wantErr bool
	}{
		{
			name:    "bare json",
			content: `{"search_keyword":"denim jacket","item_origin":"USA","free_shipping":true}`,
			want: search.Filter{
				SearchKeyword: "denim jacket",
				ItemOrigin:    search.OriginUSA,
				FreeShipping:  true,
			},
		},
		{
			name: "fenced json",
			content: "```json\n" +
				`{"search_keyword":"vintage camera","item_origin":"Japan","condition":"like new"}` +
				"\n```",
			want: search.Filter{
				SearchKeyword: "vintage camera",
				ItemOrigin:    search.OriginJapan,
				Condition:     search.ConditionLikeNew,
			},
		},
		{
			name:    "fenced without language tag",
			content: "```\n{\"search_keyword\":\"bag\",\"item_origin\":\"Any\"}\n```",
			want: search.Filter{
				SearchKeyword: "bag",
				ItemOrigin:    search.OriginAny,
			},
		},
		{
			name:    "surrounding whitespace",
			content: "  \n{\"search_keyword\":\"hat\",\"item_origin\":\"usa\"}\n  ",
			want: search.Filter{
				SearchKeyword: "hat",
				ItemOrigin:    search.OriginUSA,
			},
		},
		{
			name:    "prose instead of json",
			content: "I could not determine any filters from that.",
			wantErr: true,
		},
		{
			name:    "empty response",
			content: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseFilterResponse(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestExtractionErrorUnwrap(t *testing.T) {
	t.Parallel()

	underlying := errors.New("upstream refused")
	err := &ExtractionError{UserMessage: extractionFailureMessage, Err: underlying}

	require.ErrorIs(t, err, underlying)
	require.Contains(t, err.Error(), "upstream refused")
	require.Equal(
		t,
		"Sorry, we couldn't extract the relevant filters from your query. Please try again.",
		err.UserMessage,
	)
}

func TestToChatMessagesDropsUnknownRoles(t *testing.T) {
	t.Parallel()

	msgs := toChatMessages([]search.Message{
		{Role: search.RoleUser, Content: "find me a bag"},
		{Role: "system", Content: "ignored"},
		{Role: search.RoleAssistant, Content: "sure"},
	})
	require.Len(t, msgs, 2)
}
