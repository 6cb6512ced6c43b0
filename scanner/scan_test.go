package scanner

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"

	"github.com/bitcoindevkit/bdk-sp/keyderiv"
	"github.com/bitcoindevkit/bdk-sp/primitives"
	"github.com/bitcoindevkit/bdk-sp/sender"
	"github.com/bitcoindevkit/bdk-sp/sharedsecret"
	"github.com/bitcoindevkit/bdk-sp/spcode"
)

// independentTaggedHash mirrors BIP-340's tagged hash using the standard
// library's sha256, independent of this module's primitives package.
func independentTaggedHash(tag string, parts ...[]byte) [32]byte {
	tagHash := sha256.Sum256([]byte(tag))
	h := sha256.New()
	h.Write(tagHash[:])
	h.Write(tagHash[:])
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func testScalarSC(t *testing.T, v byte) *primitives.Scalar {
	t.Helper()
	var b [32]byte
	b[31] = v
	s, err := primitives.NewScalar(b)
	if err != nil {
		t.Fatalf("NewScalar: %v", err)
	}
	return s
}

func testInputSum(t *testing.T, priv *primitives.Scalar) *sharedsecret.InputSum {
	t.Helper()
	pub := primitives.ScalarBaseMul(priv)
	xonly, _ := pub.XOnly()
	script := append([]byte{txscript.OP_1, txscript.OP_DATA_32}, xonly[:]...)

	in := sharedsecret.InputWithKey{
		Input: sharedsecret.Input{
			Outpoint:      wire.OutPoint{Hash: [32]byte{0x09}, Index: 0},
			PrevoutScript: script,
		},
		PrivKey: priv,
	}
	sum, err := sharedsecret.ComputeInputSum([]sharedsecret.InputWithKey{in})
	if err != nil {
		t.Fatalf("ComputeInputSum: %v", err)
	}
	return sum
}

func TestSenderReceiverClosureSingleOutput(t *testing.T) {
	a := testScalarSC(t, 11)
	sum := testInputSum(t, a)

	scanPriv := testScalarSC(t, 22)
	spendPriv := testScalarSC(t, 33)
	spendPub := primitives.ScalarBaseMul(spendPriv)
	code := spcode.SilentPaymentCode{
		Version:     0,
		ScanPubKey:  primitives.ScalarBaseMul(scanPriv),
		SpendPubKey: spendPub,
		Network:     spcode.Mainnet,
	}

	outs, err := sender.Outputs(sum, []sender.Recipient{{Code: code, Amount: 5000}})
	if err != nil {
		t.Fatalf("sender.Outputs: %v", err)
	}
	if len(outs) != 1 {
		t.Fatalf("want 1 output, got %d", len(outs))
	}

	found, err := Scan(scanPriv, spendPub, sum, [][32]byte{outs[0].XOnlyPubKey}, NewLabelTable())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("want 1 owned output, got %d", len(found))
	}
	if found[0].Label != nil {
		t.Fatal("unlabelled output must not report a label")
	}

	recoveredSpend := spendPriv.Add(found[0].Tweak)
	recoveredPub := primitives.ScalarBaseMul(recoveredSpend)
	gotXOnly, _ := recoveredPub.XOnly()
	if gotXOnly != outs[0].XOnlyPubKey {
		t.Fatal("recovered private key does not generate the output's x-only pubkey")
	}
}

func TestSenderReceiverClosureKCounterOrdering(t *testing.T) {
	a := testScalarSC(t, 11)
	sum := testInputSum(t, a)

	scanPriv := testScalarSC(t, 22)
	spendPriv := testScalarSC(t, 33)
	spendPub := primitives.ScalarBaseMul(spendPriv)
	code := spcode.SilentPaymentCode{
		Version:     0,
		ScanPubKey:  primitives.ScalarBaseMul(scanPriv),
		SpendPubKey: spendPub,
		Network:     spcode.Mainnet,
	}

	outs, err := sender.Outputs(sum, []sender.Recipient{
		{Code: code, Amount: 1000},
		{Code: code, Amount: 2000},
	})
	if err != nil {
		t.Fatalf("sender.Outputs: %v", err)
	}

	found, err := Scan(scanPriv, spendPub, sum, [][32]byte{outs[0].XOnlyPubKey, outs[1].XOnlyPubKey}, NewLabelTable())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("want 2 owned outputs, got %d", len(found))
	}
	if found[0].OutputIndex != 0 || found[1].OutputIndex != 1 {
		t.Fatal("discovery order must follow contiguous k assignment, k=0 then k=1")
	}
}

func TestSenderReceiverClosureLabelDiscovery(t *testing.T) {
	a := testScalarSC(t, 11)
	sum := testInputSum(t, a)

	scanPriv := testScalarSC(t, 22)
	spendPriv := testScalarSC(t, 33)
	spendPub := primitives.ScalarBaseMul(spendPriv)
	scanPub := primitives.ScalarBaseMul(scanPriv)

	label, err := keyderiv.DeriveLabel(scanPriv, 7)
	if err != nil {
		t.Fatalf("DeriveLabel: %v", err)
	}
	labelledSpendPub, err := keyderiv.LabelledSpendPubKey(spendPub, label)
	if err != nil {
		t.Fatalf("LabelledSpendPubKey: %v", err)
	}

	code := spcode.SilentPaymentCode{
		Version:     0,
		ScanPubKey:  scanPub,
		SpendPubKey: labelledSpendPub,
		Network:     spcode.Mainnet,
	}

	outs, err := sender.Outputs(sum, []sender.Recipient{{Code: code, Amount: 1500}})
	if err != nil {
		t.Fatalf("sender.Outputs: %v", err)
	}

	labels, err := NewLabelTable().Add(LabelEntry{M: label.M, Tweak: label.Tweak}, label.Pubkey)
	if err != nil {
		t.Fatalf("LabelTable.Add: %v", err)
	}

	found, err := Scan(scanPriv, spendPub, sum, [][32]byte{outs[0].XOnlyPubKey}, labels)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("want 1 owned output, got %d", len(found))
	}
	if found[0].Label == nil || *found[0].Label != 7 {
		t.Fatalf("want label 7, got %v", found[0].Label)
	}

	recoveredSpend := spendPriv.Add(found[0].Tweak)
	recoveredPub := primitives.ScalarBaseMul(recoveredSpend)
	gotXOnly, _ := recoveredPub.XOnly()
	if gotXOnly != outs[0].XOnlyPubKey {
		t.Fatal("recovered private key does not generate the labelled output's x-only pubkey")
	}
}

// TestScanTweakMatchesIndependentBIP352Derivation recomputes t_0 for the
// single-input, single-recipient case entirely outside this module (raw
// btcec arithmetic plus the standard library's sha256) and checks it
// byte-for-byte against the tweak Scan recovers, so a regression in the
// tag string, counter encoding, or ECDH formula shows up as a failure
// independent of whatever sender.Outputs happened to produce.
func TestScanTweakMatchesIndependentBIP352Derivation(t *testing.T) {
	a := testScalarSC(t, 11)
	sum := testInputSum(t, a)

	scanPriv := testScalarSC(t, 22)
	spendPriv := testScalarSC(t, 33)
	spendPub := primitives.ScalarBaseMul(spendPriv)
	code := spcode.SilentPaymentCode{
		Version:     0,
		ScanPubKey:  primitives.ScalarBaseMul(scanPriv),
		SpendPubKey: spendPub,
		Network:     spcode.Mainnet,
	}

	outs, err := sender.Outputs(sum, []sender.Recipient{{Code: code, Amount: 4000}})
	if err != nil {
		t.Fatalf("sender.Outputs: %v", err)
	}

	found, err := Scan(scanPriv, spendPub, sum, [][32]byte{outs[0].XOnlyPubKey}, NewLabelTable())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("want 1 owned output, got %d", len(found))
	}

	aBytes := a.Bytes()
	var aPriv btcec.ModNScalar
	aPriv.SetBytes(&aBytes)

	var aSumJ btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&aPriv, &aSumJ)
	aSumJ.ToAffine()
	aSumPub := btcec.NewPublicKey(&aSumJ.X, &aSumJ.Y)

	// testInputSum always spends wire.OutPoint{Hash: [32]byte{0x09}, Index: 0}.
	outpointKey := make([]byte, 36)
	outpointKey[0] = 0x09

	ohBytes := independentTaggedHash("BIP0352/Inputs", outpointKey, aSumPub.SerializeCompressed())
	var oh btcec.ModNScalar
	oh.SetBytes(&ohBytes)

	var ecdhScalar btcec.ModNScalar
	ecdhScalar.Mul2(&aPriv, &oh)

	scanBytes := scanPriv.Bytes()
	var scanPrivScalar btcec.ModNScalar
	scanPrivScalar.SetBytes(&scanBytes)
	var scanPubJ btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&scanPrivScalar, &scanPubJ)

	var ecdhJ btcec.JacobianPoint
	btcec.ScalarMultNonConst(&ecdhScalar, &scanPubJ, &ecdhJ)
	ecdhJ.ToAffine()
	ecdhPub := btcec.NewPublicKey(&ecdhJ.X, &ecdhJ.Y)

	var kBytes [4]byte
	binary.BigEndian.PutUint32(kBytes[:], 0)
	tkBytes := independentTaggedHash("BIP0352/SharedSecret", ecdhPub.SerializeCompressed(), kBytes[:])

	gotTweak := found[0].Tweak.Bytes()
	if gotTweak != tkBytes {
		t.Fatalf("Scan tweak diverged from independent BIP-352 derivation:\ngot  %x\nwant %x", gotTweak, tkBytes)
	}
}

func TestScanTerminatesOnFirstMiss(t *testing.T) {
	a := testScalarSC(t, 11)
	sum := testInputSum(t, a)

	scanPriv := testScalarSC(t, 22)
	spendPriv := testScalarSC(t, 33)
	spendPub := primitives.ScalarBaseMul(spendPriv)

	unrelated := [32]byte{0xff, 0x02, 0x03}
	found, err := Scan(scanPriv, spendPub, sum, [][32]byte{unrelated}, NewLabelTable())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(found) != 0 {
		t.Fatal("no candidates should match an unrelated output")
	}
}
