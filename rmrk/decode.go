package rmrk

import (
	"encoding/json"
	"regexp"
	"rmrk-indexer/utils"
	"strings"

	"github.com/pkg/errors"
)

const (
	separator = "::"
)

var (
	// Remark cannot be classified, it is never processed again
	ErrMalformed = errors.New("malformed remark")

	actionRegex = regexp.MustCompile(`^(?i:rmrk)::([A-Za-z]+)::`)
	objectRegex = regexp.MustCompile(`{.*}`)
)

// Classified remark payload. The text is percent-decoded only when the fields are read.
type Remark struct {
	Raw     string
	Text    string
	Action  ActionKind
	Version SpecVersion
}

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformed, format, args...)
}

// Turns the raw payload into text, hex payloads start with "0x"
func DecodePayload(value string) (string, error) {
	if !utils.IsHex(value) {
		return value, nil
	}
	b, err := utils.DecodeHexString(value)
	if err != nil {
		return "", malformed("invalid hex payload (%v)", err)
	}
	return string(b), nil
}

// Action of the decoded remark, ActionUnknown if it does not match RMRK::<ACTION>::
func Classify(text string) ActionKind {
	match := actionRegex.FindStringSubmatch(text)
	if match == nil {
		return ActionUnknown
	}
	action, ok := knownActions[strings.ToUpper(match[1])]
	if !ok {
		return ActionUnknown
	}
	return action
}

// Version token is the third field, anything else than 1.0.0 or 2.0.0 is the legacy dialect
func Version(text string) SpecVersion {
	fields := strings.Split(text, separator)
	if len(fields) >= 3 {
		switch SpecVersion(fields[2]) {
		case SpecV1:
			return SpecV1
		case SpecV2:
			return SpecV2
		}
	}
	return SpecV01
}

// Decode and classify the payload. Returns an error wrapping ErrMalformed if the payload
// cannot be decoded or the action is not known. Errors in the percent encoding of the
// fields are returned by the accessors.
func Parse(value string) (*Remark, error) {
	text, err := DecodePayload(value)
	if err != nil {
		return nil, err
	}
	action := Classify(text)
	if action == ActionUnknown {
		return nil, malformed("unable to get action from %q", text)
	}
	return &Remark{
		Raw:     value,
		Text:    text,
		Action:  action,
		Version: Version(text),
	}, nil
}

// Percent-decoded text
func (r *Remark) Decoded() (string, error) {
	decoded, err := utils.DecodeURIComponent(r.Text)
	if err != nil {
		return "", errors.Wrapf(err, "invalid percent encoding in %s", r.Text)
	}
	return decoded, nil
}

// Percent-decoded fields separated by "::"
func (r *Remark) Fields() ([]string, error) {
	decoded, err := r.Decoded()
	if err != nil {
		return nil, err
	}
	return strings.Split(decoded, separator), nil
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return strings.TrimSpace(fields[i])
	}
	return ""
}

// Embedded JSON object if there is one, otherwise {id: field 3, metadata: field 4}
func (r *Remark) Generic() ([]byte, error) {
	decoded, err := r.Decoded()
	if err != nil {
		return nil, err
	}
	if obj := objectRegex.FindString(decoded); len(obj) > 0 {
		if !json.Valid([]byte(obj)) {
			return nil, errors.Errorf("unable to parse object %s", obj)
		}
		return []byte(obj), nil
	}
	fields := strings.Split(decoded, separator)
	if len(fields) >= 4 {
		var metadata string
		if len(fields) >= 5 {
			metadata = fields[4]
		}
		return json.Marshal(Interaction{ID: fields[3], Metadata: metadata})
	}
	return nil, errors.Errorf("unable to unwrap object %s", decoded)
}

func (r *Remark) unwrap(v interface{}) error {
	data, err := r.Generic()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "unable to unwrap %s", r.Action)
	}
	return nil
}

func (r *Remark) Collection() (*CollectionView, error) {
	var view CollectionView
	if err := r.unwrap(&view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *Remark) NFT() (*NFTView, error) {
	var view NFTView
	if err := r.unwrap(&view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Interaction addressing an existing entity, the id is mandatory
func (r *Remark) Interaction() (*Interaction, error) {
	var view Interaction
	if err := r.unwrap(&view); err != nil {
		return nil, err
	}
	if len(view.ID) == 0 {
		return nil, errors.Errorf("%s interaction without id", r.Action)
	}
	return &view, nil
}

// Emote interaction. V2 emotes carry a namespace before the NFT id: RMRK::EMOTE::2.0.0::RMRK2::id::emoji
func (r *Remark) Emote() (*Interaction, error) {
	fields, err := r.Fields()
	if err != nil {
		return nil, err
	}
	if r.Version != SpecV2 || len(fields) < 6 {
		return r.Interaction()
	}
	view := &Interaction{ID: field(fields, 4), Metadata: field(fields, 5)}
	if len(view.ID) == 0 {
		return nil, errors.New("EMOTE interaction without id")
	}
	return view, nil
}

func (r *Remark) Send() (*SendInteraction, error) {
	fields, err := r.Fields()
	if err != nil {
		return nil, err
	}
	if len(fields) < 5 {
		return nil, errors.Errorf("unable to unwrap SEND object %s", r.Text)
	}
	return &SendInteraction{
		Version:   field(fields, 2),
		ID:        field(fields, 3),
		Recipient: field(fields, 4),
	}, nil
}

func (r *Remark) Accept() (*AcceptInteraction, error) {
	fields, err := r.Fields()
	if err != nil {
		return nil, err
	}
	if len(fields) < 6 {
		return nil, errors.Errorf("unable to unwrap ACCEPT object %s", r.Text)
	}
	return &AcceptInteraction{
		ID1:    field(fields, 3),
		Entity: AcceptEntity(strings.ToUpper(field(fields, 4))),
		ID2:    field(fields, 5),
	}, nil
}

// Target NFT id and the resource, the resource id is mandatory
func (r *Remark) ResAdd() (string, *ResourceView, error) {
	fields, err := r.Fields()
	if err != nil {
		return "", nil, err
	}
	if len(fields) < 5 {
		return "", nil, errors.Errorf("unable to unwrap RESADD object %s", r.Text)
	}
	nftID := field(fields, 3)
	if len(nftID) == 0 {
		return "", nil, errors.New("RESADD interaction without id")
	}
	raw := strings.Join(fields[4:], separator)

	var res ResourceView
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return "", nil, errors.Wrapf(err, "unable to parse metadata as JSON object %s", raw)
	}
	if len(res.ID) == 0 {
		return "", nil, errors.New("invalid resource id")
	}
	res.Metadata = raw
	return nftID, &res, nil
}

// Recipient of a V2 mint, an account or the id of the parent NFT. Empty if absent.
func (r *Remark) MintRecipient() (string, error) {
	fields, err := r.Fields()
	if err != nil {
		return "", err
	}
	return field(fields, 4), nil
}
