package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/xapay/xapay-go"
	"github.com/xapay/xapay-go/address"
)

var testAddress = address.Encode(xapay.Account{0x01})

func TestAddress(t *testing.T) {
	if err := Address(testAddress); err != nil {
		t.Errorf("valid address rejected: %v", err)
	}
	if err := Address(""); !errors.Is(err, xapay.ErrMissingField) {
		t.Errorf("empty address error = %v, want ErrMissingField", err)
	}
	if err := Address("0xDEADBEEF"); !errors.Is(err, xapay.ErrMalformedField) {
		t.Errorf("foreign format error = %v, want ErrMalformedField", err)
	}
}

func TestAmountLiteral(t *testing.T) {
	for _, ok := range []string{"0", "100", "1.5", "0.000001"} {
		if err := AmountLiteral("amount", ok); err != nil {
			t.Errorf("AmountLiteral(%q) = %v", ok, err)
		}
	}
	if err := AmountLiteral("amount", ""); !errors.Is(err, xapay.ErrMissingField) {
		t.Errorf("empty literal error = %v, want ErrMissingField", err)
	}
	for _, bad := range []string{"-5", "1.2.3", "abc", "1e6"} {
		if err := AmountLiteral("amount", bad); !errors.Is(err, xapay.ErrMalformedField) {
			t.Errorf("AmountLiteral(%q) error = %v, want ErrMalformedField", bad, err)
		}
	}
}

func TestSignatureHex(t *testing.T) {
	if err := SignatureHex("signature", "deadbeef"); err != nil {
		t.Errorf("valid hex rejected: %v", err)
	}
	if err := SignatureHex("signature", ""); !errors.Is(err, xapay.ErrMissingField) {
		t.Errorf("empty error = %v, want ErrMissingField", err)
	}
	if err := SignatureHex("signature", "zz"); !errors.Is(err, xapay.ErrMalformedField) {
		t.Errorf("non-hex error = %v, want ErrMalformedField", err)
	}
}

func TestNonceHex(t *testing.T) {
	if err := NonceHex(strings.Repeat("ab", xapay.NonceLen)); err != nil {
		t.Errorf("valid nonce rejected: %v", err)
	}
	if err := NonceHex("abcd"); !errors.Is(err, xapay.ErrMalformedField) {
		t.Errorf("short nonce error = %v, want ErrMalformedField", err)
	}
}

func TestInstruction(t *testing.T) {
	validNonce := strings.Repeat("00", xapay.NonceLen)

	tests := []struct {
		name    string
		inst    xapay.Instruction
		wantErr error
	}{
		{
			name: "direct payment complete",
			inst: xapay.Instruction{
				Type:        xapay.InstructionDirectPayment,
				UserAddress: testAddress,
				Amount:      "40",
				Nonce:       validNonce,
				Signature:   "deadbeef",
			},
		},
		{
			name: "direct payment missing nonce",
			inst: xapay.Instruction{
				Type:        xapay.InstructionDirectPayment,
				UserAddress: testAddress,
				Amount:      "40",
				Signature:   "deadbeef",
			},
			wantErr: xapay.ErrMissingField,
		},
		{
			name: "allowance payment complete",
			inst: xapay.Instruction{
				Type:          xapay.InstructionAllowancePayment,
				UserAddress:   testAddress,
				PaymentAmount: "30",
				Allowance:     &xapay.AllowanceField{Amount: "50", Signature: "deadbeef"},
			},
		},
		{
			name: "allowance payment missing allowance",
			inst: xapay.Instruction{
				Type:          xapay.InstructionAllowancePayment,
				UserAddress:   testAddress,
				PaymentAmount: "30",
			},
			wantErr: xapay.ErrMissingField,
		},
		{
			name: "allowance payment malformed cap",
			inst: xapay.Instruction{
				Type:          xapay.InstructionAllowancePayment,
				UserAddress:   testAddress,
				PaymentAmount: "30",
				Allowance:     &xapay.AllowanceField{Amount: "fifty", Signature: "deadbeef"},
			},
			wantErr: xapay.ErrMalformedField,
		},
		{
			name: "update allowance complete",
			inst: xapay.Instruction{
				Type:         xapay.InstructionUpdateAllowance,
				UserAddress:  testAddress,
				AllowanceCap: "200",
				Signature:    "deadbeef",
			},
		},
		{
			name: "update allowance missing signature",
			inst: xapay.Instruction{
				Type:         xapay.InstructionUpdateAllowance,
				UserAddress:  testAddress,
				AllowanceCap: "200",
			},
			wantErr: xapay.ErrMissingField,
		},
		{
			name:    "missing type",
			inst:    xapay.Instruction{},
			wantErr: xapay.ErrMissingField,
		},
		{
			name:    "unknown type",
			inst:    xapay.Instruction{Type: "teleport"},
			wantErr: xapay.ErrUnknownInstruction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Instruction(&tt.inst)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
