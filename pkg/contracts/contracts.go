package contracts

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/address"
	"golang.org/x/crypto/sha3"
)

// VMType identifies the WASM virtual machine in deploy data and contract addresses
var VMType = []byte{0x05, 0x00}

// DeployAddress is the receiver of every deploy transaction
var DeployAddress = address.Zero

// CodeMetadata carries the flags attached to deployed code
type CodeMetadata struct {
	Upgradeable bool
	Readable    bool
	Payable     bool
	PayableBySC bool
}

var DefaultCodeMetadata = CodeMetadata{Upgradeable: true}

func (m CodeMetadata) Bytes() []byte {
	b := []byte{0, 0}
	if m.Upgradeable {
		b[0] |= 0x01
	}
	if m.Readable {
		b[0] |= 0x04
	}
	if m.Payable {
		b[1] |= 0x02
	}
	if m.PayableBySC {
		b[1] |= 0x04
	}
	return b
}

func (m CodeMetadata) String() string {
	return hex.EncodeToString(m.Bytes())
}

// PrepareDeployData builds "<code>@0500@<metadata>[@arg...]"
func PrepareDeployData(bytecode []byte, metadata CodeMetadata, arguments []string) (string, error) {
	if len(bytecode) == 0 {
		return "", fmt.Errorf("bytecode is empty")
	}
	parts := []string{hex.EncodeToString(bytecode), hex.EncodeToString(VMType), metadata.String()}

	encoded, err := EncodeArguments(arguments)
	if err != nil {
		return "", err
	}
	return strings.Join(append(parts, encoded...), "@"), nil
}

// PrepareCallData builds "<function>[@arg...]"
func PrepareCallData(function string, arguments []string) (string, error) {
	if function == "" {
		return "", fmt.Errorf("function name is required")
	}
	if strings.Contains(function, "@") {
		return "", fmt.Errorf("invalid function name %q", function)
	}

	encoded, err := EncodeArguments(arguments)
	if err != nil {
		return "", err
	}
	return strings.Join(append([]string{function}, encoded...), "@"), nil
}

func EncodeArguments(arguments []string) ([]string, error) {
	encoded := make([]string, 0, len(arguments))
	for _, arg := range arguments {
		e, err := EncodeArgument(arg)
		if err != nil {
			return nil, err
		}
		encoded = append(encoded, e)
	}
	return encoded, nil
}

// EncodeArgument converts a command line argument into its hex form. Accepted forms are
// 0x-prefixed hex, non-negative decimal integers, str:<text>, erd1 addresses and true/false.
func EncodeArgument(arg string) (string, error) {
	switch {
	case strings.HasPrefix(arg, "0x"):
		h := strings.ToLower(arg[2:])
		if len(h)%2 == 1 {
			h = "0" + h
		}
		if _, err := hex.DecodeString(h); err != nil {
			return "", fmt.Errorf("invalid hex argument %q", arg)
		}
		return h, nil
	case strings.HasPrefix(arg, "str:"):
		return hex.EncodeToString([]byte(arg[4:])), nil
	case strings.HasPrefix(arg, address.HRP+"1"):
		addr, err := address.FromBech32(arg)
		if err != nil {
			return "", fmt.Errorf("invalid address argument %q: %w", arg, err)
		}
		return addr.Hex(), nil
	case arg == "true":
		return "01", nil
	case arg == "false":
		return "00", nil
	}

	n, ok := new(big.Int).SetString(arg, 10)
	if !ok || n.Sign() < 0 {
		return "", fmt.Errorf("cannot encode argument %q", arg)
	}
	h := n.Text(16)
	if len(h)%2 == 1 {
		h = "0" + h
	}
	return h, nil
}

// ComputeContractAddress derives the address a deploy from owner at nonce produces
func ComputeContractAddress(owner address.Address, nonce uint64) address.Address {
	var nonceBytes [8]byte
	binary.LittleEndian.PutUint64(nonceBytes[:], nonce)

	h := sha3.NewLegacyKeccak256()
	h.Write(owner[:])
	h.Write(nonceBytes[:])
	digest := h.Sum(nil)

	var contract address.Address
	copy(contract[8:10], VMType)
	copy(contract[10:30], digest[10:30])
	copy(contract[30:], owner[30:])
	return contract
}

// LoadBytecode reads contract code. A directory is searched for output/*.wasm, a .wasm file is
// read as is and anything else is expected to hold hex text.
func LoadBytecode(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bytecode: %w", err)
	}

	if info.IsDir() {
		matches, err := filepath.Glob(filepath.Join(path, "output", "*.wasm"))
		if err != nil {
			return nil, err
		}
		if len(matches) != 1 {
			return nil, fmt.Errorf("expected exactly one .wasm file in %s, found %d", filepath.Join(path, "output"), len(matches))
		}
		path = matches[0]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bytecode: %w", err)
	}
	if strings.HasSuffix(path, ".wasm") {
		return data, nil
	}

	code, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("bytecode file %s is not hex: %w", path, err)
	}
	return code, nil
}
