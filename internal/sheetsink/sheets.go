package sheetsink

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/sheets/v4"

	"github.com/verticali/booking/pkg/studio"
)

// SheetsSink appends events as rows to a Google Sheets spreadsheet through
// the Sheets API, one tab per event type.
type SheetsSink struct {
	service       *sheets.Service
	spreadsheetID string
	logger        *zap.Logger
	sendTimeout   time.Duration
	nowFn         func() time.Time
}

// NewSheetsSink wires a sink over an authenticated Sheets service.
func NewSheetsSink(service *sheets.Service, spreadsheetID string, logger *zap.Logger) *SheetsSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetsSink{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logger,
		sendTimeout:   defaultSendTimeout,
		nowFn:         time.Now,
	}
}

// Notify implements studio.Notifier. Each event becomes one appended row:
// a timestamp followed by the payload values in key order, so columns stay
// stable across deliveries.
func (sink *SheetsSink) Notify(ctx context.Context, event studio.Event) {
	sendCtx, cancel := context.WithTimeout(ctx, sink.sendTimeout)
	defer cancel()

	row := make([]interface{}, 0, len(event.Payload)+1)
	row = append(row, sink.nowFn().UTC().Format(time.RFC3339))
	for _, key := range sortedKeys(event.Payload) {
		row = append(row, event.Payload[key])
	}
	valueRange := &sheets.ValueRange{Values: [][]interface{}{row}}

	_, err := sink.service.Spreadsheets.Values.
		Append(sink.spreadsheetID, string(event.Type)+"!A:Z", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(sendCtx).
		Do()
	if err != nil {
		sink.logger.Warn("sheet append failed",
			zap.String("event_type", string(event.Type)),
			zap.String("spreadsheet_id", sink.spreadsheetID),
			zap.Error(err))
	}
}

func sortedKeys(payload map[string]string) []string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

var _ studio.Notifier = (*SheetsSink)(nil)
