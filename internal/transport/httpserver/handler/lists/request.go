package lists

import (
	"bytes"
	"encoding/json"

	listsdomain "bringlist/internal/domain/lists"
)

type createListRequest struct {
	ChildName string            `json:"childName"`
	Items     []listItemRequest `json:"items"`
}

type updateListRequest struct {
	ChildName *string            `json:"childName"`
	Items     *[]listItemRequest `json:"items"`
}

// listItemRequest accepts either {"itemId", "quantity", "note"} or a bare
// item id string as sent by older clients.
type listItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
}

func (i *listItemRequest) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var itemID string
		if err := json.Unmarshal(data, &itemID); err != nil {
			return err
		}
		*i = listItemRequest{ItemID: itemID, Quantity: listsdomain.DefaultQuantity}
		return nil
	}

	type plain listItemRequest
	var decoded plain
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&decoded); err != nil {
		return err
	}
	*i = listItemRequest(decoded)
	return nil
}

func toListItems(entries []listItemRequest) []listsdomain.ListItem {
	result := make([]listsdomain.ListItem, 0, len(entries))
	for _, entry := range entries {
		result = append(result, listsdomain.ListItem{
			ItemID:   entry.ItemID,
			Quantity: entry.Quantity,
			Note:     entry.Note,
		})
	}
	return result
}
