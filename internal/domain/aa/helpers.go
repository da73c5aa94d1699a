package aa

import (
	"encoding/json"
	"errors"
)

var errNoFIData = errors.New("aa: no encryptedFI or FI field present in fetch response")

func jsonMarshal(v any) ([]byte, error) {
	return json.Marshal(v)
}
