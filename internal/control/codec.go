package control

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// MaxTokenLength is the Telegram limit for callback data.
const MaxTokenLength = 64

const (
	macSize   = 6
	macSep    = "~"
	dayLayout = "20060102"
)

var (
	// ErrUnknown is returned for tokens that do not decode to any action.
	ErrUnknown = errors.New("control: unknown token")
	// ErrForged is returned when a token's signature does not verify.
	ErrForged = errors.New("control: token signature mismatch")
)

// Codec converts actions to and from callback tokens. A codec with a key
// signs every token and rejects unsigned or tampered ones.
type Codec struct {
	key []byte
}

// NewCodec returns a codec. An empty secret disables signing.
func NewCodec(secret string) *Codec {
	if secret == "" {
		return &Codec{}
	}
	key := []byte(secret)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	return &Codec{key: key}
}

// Encode renders an action as a token.
func (c *Codec) Encode(a Action) string {
	payload := encodePayload(a)
	if c == nil || len(c.key) == 0 {
		return payload
	}
	return payload + macSep + c.sign(payload)
}

// Decode parses a token produced by Encode.
func (c *Codec) Decode(token string) (Action, error) {
	payload := token
	if c != nil && len(c.key) > 0 {
		i := strings.LastIndex(token, macSep)
		if i < 0 {
			return nil, ErrForged
		}
		payload = token[:i]
		if subtle.ConstantTimeCompare([]byte(token[i+1:]), []byte(c.sign(payload))) != 1 {
			return nil, ErrForged
		}
	}
	a, err := decodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, payload)
	}
	return a, nil
}

func (c *Codec) sign(payload string) string {
	h, err := blake2b.New(macSize, c.key)
	if err != nil {
		// Only reachable with an oversized key, which NewCodec prevents.
		panic(err)
	}
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func encodePayload(a Action) string {
	switch v := a.(type) {
	case PickComplex:
		return "cx:" + itoa(v.ID)
	case PickOrganization:
		return "og:" + itoa(v.ID)
	case BackToComplexes:
		return "cx:back"
	case PickDay:
		return "cd:" + v.Date.Format(dayLayout)
	case ShowMonth:
		return fmt.Sprintf("cm:%04d%02d", v.Year, int(v.Month))
	case PickToday:
		return "ct"
	case CancelCalendar:
		return "cc"
	case Noop:
		return "nop"
	case PickStatus:
		return "st:" + v.Code
	case Confirm:
		if v.Accept {
			return "cf:y"
		}
		return "cf:n"
	case PickYear:
		return "by:" + strconv.Itoa(v.Year)
	case PickMonth:
		return fmt.Sprintf("bm:%04d%02d", v.Year, int(v.Month))
	case OpenMeeting:
		return "bo:" + itoa(v.ID)
	case ShowPage:
		return "bp:" + strconv.Itoa(v.Index)
	case BackToYears:
		return "bb:y"
	case BackToMonths:
		return "bb:m"
	case BackToList:
		return "bb:l"
	case StartEdit:
		return "ed:" + itoa(v.MeetingID)
	case EditField:
		return "ef:" + itoa(v.MeetingID) + ":" + string(v.Field)
	case CancelEdit:
		return "ex:" + itoa(v.MeetingID)
	case StartDelete:
		return "dl:" + itoa(v.MeetingID)
	case ConfirmDelete:
		return "dy:" + itoa(v.MeetingID)
	case CancelDelete:
		return "dn:" + itoa(v.MeetingID)
	case AdminMenu:
		return "ad:" + string(v.Item)
	}
	return "nop"
}

func decodePayload(payload string) (Action, error) {
	tag, arg, _ := strings.Cut(payload, ":")
	switch tag {
	case "cx":
		if arg == "back" {
			return BackToComplexes{}, nil
		}
		id, err := parseID(arg)
		return PickComplex{ID: id}, err
	case "og":
		id, err := parseID(arg)
		return PickOrganization{ID: id}, err
	case "cd":
		d, err := time.Parse(dayLayout, arg)
		if err != nil {
			return nil, ErrUnknown
		}
		return PickDay{Date: d}, nil
	case "cm":
		y, m, err := parseYearMonth(arg)
		return ShowMonth{Year: y, Month: m}, err
	case "ct":
		return noArg(PickToday{}, arg)
	case "cc":
		return noArg(CancelCalendar{}, arg)
	case "nop":
		return noArg(Noop{}, arg)
	case "st":
		if arg == "" {
			return nil, ErrUnknown
		}
		return PickStatus{Code: arg}, nil
	case "cf":
		switch arg {
		case "y":
			return Confirm{Accept: true}, nil
		case "n":
			return Confirm{Accept: false}, nil
		}
	case "by":
		y, err := strconv.Atoi(arg)
		if err != nil || y <= 0 {
			return nil, ErrUnknown
		}
		return PickYear{Year: y}, nil
	case "bm":
		y, m, err := parseYearMonth(arg)
		return PickMonth{Year: y, Month: m}, err
	case "bo":
		id, err := parseID(arg)
		return OpenMeeting{ID: id}, err
	case "bp":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return nil, ErrUnknown
		}
		return ShowPage{Index: n}, nil
	case "bb":
		switch arg {
		case "y":
			return BackToYears{}, nil
		case "m":
			return BackToMonths{}, nil
		case "l":
			return BackToList{}, nil
		}
	case "ed":
		id, err := parseID(arg)
		return StartEdit{MeetingID: id}, err
	case "ef":
		rawID, rawField, ok := strings.Cut(arg, ":")
		if !ok || !Field(rawField).Valid() {
			return nil, ErrUnknown
		}
		id, err := parseID(rawID)
		return EditField{MeetingID: id, Field: Field(rawField)}, err
	case "ex":
		id, err := parseID(arg)
		return CancelEdit{MeetingID: id}, err
	case "dl":
		id, err := parseID(arg)
		return StartDelete{MeetingID: id}, err
	case "dy":
		id, err := parseID(arg)
		return ConfirmDelete{MeetingID: id}, err
	case "dn":
		id, err := parseID(arg)
		return CancelDelete{MeetingID: id}, err
	case "ad":
		switch item := AdminItem(arg); item {
		case AdminList, AdminAdd, AdminDelete, AdminBack:
			return AdminMenu{Item: item}, nil
		}
	}
	return nil, ErrUnknown
}

func noArg(a Action, arg string) (Action, error) {
	if arg != "" {
		return nil, ErrUnknown
	}
	return a, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrUnknown
	}
	return id, nil
}

func parseYearMonth(raw string) (int, time.Month, error) {
	if len(raw) != 6 {
		return 0, 0, ErrUnknown
	}
	y, errY := strconv.Atoi(raw[:4])
	m, errM := strconv.Atoi(raw[4:])
	if errY != nil || errM != nil || m < 1 || m > 12 {
		return 0, 0, ErrUnknown
	}
	return y, time.Month(m), nil
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
