package wasm

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	instantiateFieldAddress = 1
	instantiateFieldData    = 2
)

// InstantiateResponse is the payload the host returns for a successful
// instantiate sub message, MsgInstantiateContractResponse on the wire.
type InstantiateResponse struct {
	ContractAddress string
	Data            []byte
}

func EncodeInstantiateResponse(r *InstantiateResponse) []byte {
	var b []byte
	if r.ContractAddress != "" {
		b = protowire.AppendTag(b, instantiateFieldAddress, protowire.BytesType)
		b = protowire.AppendString(b, r.ContractAddress)
	}
	if len(r.Data) > 0 {
		b = protowire.AppendTag(b, instantiateFieldData, protowire.BytesType)
		b = protowire.AppendBytes(b, r.Data)
	}
	return b
}

func DecodeInstantiateResponse(b []byte) (*InstantiateResponse, error) {
	var r InstantiateResponse
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("invalid tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == instantiateFieldAddress && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, fmt.Errorf("invalid contract address: %w", protowire.ParseError(n))
			}
			r.ContractAddress = v
			b = b[n:]
		case num == instantiateFieldData && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("invalid data: %w", protowire.ParseError(n))
			}
			r.Data = append([]byte(nil), v...)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("invalid field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return &r, nil
}

// ParseReplyInstantiateData extracts the instantiated contract from a reply.
// It never panics: an error result, a missing payload or malformed bytes all
// come back as errors.
func ParseReplyInstantiateData(reply Reply) (*InstantiateResponse, error) {
	if reply.Result.Err != "" {
		return nil, fmt.Errorf("sub message failed: %s", reply.Result.Err)
	}
	if reply.Result.Ok == nil || len(reply.Result.Ok.Data) == 0 {
		return nil, errors.New("missing instantiate data")
	}
	return DecodeInstantiateResponse(reply.Result.Ok.Data)
}
