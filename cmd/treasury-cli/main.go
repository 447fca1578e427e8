// treasury-cli manages covenant instances: deployment, funding, pause /
// resume / cancel transitions, state inspection, and outcome verification.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Klingon-tech/klingnet-treasury/config"
	"github.com/Klingon-tech/klingnet-treasury/internal/amount"
	"github.com/Klingon-tech/klingnet-treasury/internal/commitment"
	"github.com/Klingon-tech/klingnet-treasury/internal/covenant"
	klog "github.com/Klingon-tech/klingnet-treasury/internal/log"
	"github.com/Klingon-tech/klingnet-treasury/internal/monitor"
	"github.com/Klingon-tech/klingnet-treasury/internal/provider"
	"github.com/Klingon-tech/klingnet-treasury/internal/registry"
	"github.com/Klingon-tech/klingnet-treasury/internal/storage"
	"github.com/Klingon-tech/klingnet-treasury/internal/wallet"
	"github.com/Klingon-tech/klingnet-treasury/pkg/types"
	"golang.org/x/term"
)

func main() {
	cfg, flags, err := config.Load()
	if err != nil {
		fatal("%v", err)
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fatal("init logging: %v", err)
	}

	types.SetAddressHRP(cfg.AddressHRP())

	env := &cliEnv{
		cfg: cfg,
		client: provider.NewClientWithTimeout(cfg.Provider.Endpoint,
			time.Duration(cfg.Provider.TimeoutSeconds)*time.Second),
	}
	env.engine = covenant.NewEngine(env.client, cfg.Funding.DustLimit, cfg.Funding.FeeRate)

	args := flags.Args
	if len(args) == 0 {
		config.Usage()
		os.Exit(1)
	}

	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "wallet":
		cmdWallet(env, cmdArgs)
	case "deploy":
		cmdDeploy(env, cmdArgs)
	case "fund":
		cmdFund(env, cmdArgs)
	case "pause":
		cmdTransition(env, cmdArgs, "pause")
	case "resume":
		cmdTransition(env, cmdArgs, "resume")
	case "cancel":
		cmdTransition(env, cmdArgs, "cancel")
	case "status":
		cmdStatus(env, cmdArgs)
	case "verify":
		cmdVerify(env, cmdArgs)
	case "watch":
		cmdWatch(env, cmdArgs)
	case "list":
		cmdList(env)
	case "help":
		config.Usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		config.Usage()
		os.Exit(1)
	}
}

// cliEnv carries the configured runtime shared by all subcommands.
type cliEnv struct {
	cfg    *config.Config
	client *provider.Client
	engine *covenant.Engine
}

// withRegistry opens the registry database, runs fn, and closes it again.
func (env *cliEnv) withRegistry(fn func(*registry.Registry) error) {
	db, err := storage.NewBadger(env.cfg.RegistryDir())
	if err != nil {
		fatal("open registry: %v", err)
	}
	defer db.Close()
	if err := fn(registry.New(db)); err != nil {
		fatal("%v", err)
	}
}

// ── wallet ──────────────────────────────────────────────────────────────

func cmdWallet(env *cliEnv, args []string) {
	if len(args) < 1 {
		fatal("Usage: treasury-cli wallet <create|import|list|address|new-address> [flags]")
	}
	ksDir := env.cfg.KeystoreDir()

	switch args[0] {
	case "create":
		cmdWalletCreate(args[1:], ksDir)
	case "import":
		cmdWalletImport(args[1:], ksDir)
	case "list":
		cmdWalletList(ksDir)
	case "address":
		cmdWalletAddress(args[1:], ksDir)
	case "new-address":
		cmdWalletNewAddress(args[1:], ksDir)
	default:
		fatal("Unknown wallet command: %s", args[0])
	}
}

func cmdWalletCreate(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet create", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: treasury-cli wallet create --name <n>")
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}

	createWallet(*name, mnemonic, password, ksDir)

	fmt.Println("\nIMPORTANT: Write down your recovery phrase and store it safely.")
	fmt.Println("Anyone with this phrase can spend your funds.")
	fmt.Printf("\n  %s\n\n", mnemonic)
}

func cmdWalletImport(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet import", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	mnemonic := fs.String("mnemonic", "", "24-word recovery phrase")
	fs.Parse(args)

	if *name == "" || *mnemonic == "" {
		fatal("Usage: treasury-cli wallet import --name <n> --mnemonic \"...\"")
	}
	if !wallet.ValidateMnemonic(*mnemonic) {
		fatal("invalid mnemonic")
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}

	createWallet(*name, *mnemonic, password, ksDir)
}

// createWallet derives the seed, stores the encrypted wallet, and records
// the first funding address.
func createWallet(name, mnemonic string, password []byte, ksDir string) {
	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		fatal("derive seed: %v", err)
	}

	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		fatal("derive master key: %v", err)
	}
	hdKey, err := master.DeriveAddress(0, wallet.ChangeExternal, 0)
	if err != nil {
		fatal("derive address: %v", err)
	}
	addr := hdKey.Address()

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	if err := ks.Create(name, seed, password, wallet.DefaultParams()); err != nil {
		fatal("create wallet: %v", err)
	}
	for i := range seed {
		seed[i] = 0
	}

	if err := ks.AddAccount(name, wallet.AccountEntry{
		Index:   0,
		Name:    "Default",
		Address: addr.String(),
	}); err != nil {
		fatal("add account: %v", err)
	}

	fmt.Printf("Wallet created: %s\n", name)
	fmt.Printf("Address: %s\n", addr.String())
}

func cmdWalletList(ksDir string) {
	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	names, err := ks.List()
	if err != nil {
		fatal("list wallets: %v", err)
	}
	if len(names) == 0 {
		fmt.Println("No wallets found.")
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func cmdWalletAddress(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet address", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	fs.Parse(args)

	if *walletName == "" {
		fatal("Usage: treasury-cli wallet address --wallet <name>")
	}

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	accounts, err := ks.ListAccounts(*walletName)
	if err != nil {
		fatal("list accounts: %v", err)
	}
	if len(accounts) == 0 {
		fmt.Println("No addresses found.")
		return
	}
	for _, acct := range accounts {
		fmt.Printf("  [%d] %s\n", acct.Index, acct.Address)
	}
}

func cmdWalletNewAddress(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet new-address", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	fs.Parse(args)

	if *walletName == "" {
		fatal("Usage: treasury-cli wallet new-address --wallet <name>")
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	seed, err := ks.Load(*walletName, password)
	if err != nil {
		fatal("load wallet: %v", err)
	}

	master, err := wallet.NewMasterKey(seed)
	for i := range seed {
		seed[i] = 0
	}
	if err != nil {
		fatal("derive master key: %v", err)
	}

	nextIdx, err := ks.NextIndex(*walletName)
	if err != nil {
		fatal("next index: %v", err)
	}

	hdKey, err := master.DeriveAddress(0, wallet.ChangeExternal, nextIdx)
	if err != nil {
		fatal("derive address: %v", err)
	}
	addr := hdKey.Address()

	if err := ks.AddAccount(*walletName, wallet.AccountEntry{
		Index:   nextIdx,
		Name:    fmt.Sprintf("Address %d", nextIdx),
		Address: addr.String(),
	}); err != nil {
		fatal("add account: %v", err)
	}

	fmt.Printf("New address [%d]: %s\n", nextIdx, addr.String())
}

// walletSigner unlocks a wallet and derives the signing key at index.
func walletSigner(ksDir, walletName string, index uint32) *wallet.HDKey {
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	seed, err := ks.Load(walletName, password)
	if err != nil {
		fatal("load wallet: %v", err)
	}

	master, err := wallet.NewMasterKey(seed)
	for i := range seed {
		seed[i] = 0
	}
	if err != nil {
		fatal("derive master key: %v", err)
	}

	hdKey, err := master.DeriveAddress(0, wallet.ChangeExternal, index)
	if err != nil {
		fatal("derive address key: %v", err)
	}
	return hdKey
}

// ── deploy ──────────────────────────────────────────────────────────────

func cmdDeploy(env *cliEnv, args []string) {
	if len(args) < 2 {
		fatal("Usage: treasury-cli deploy <vault|payment|airdrop> <label> [flags]")
	}
	kind := args[0]
	label := args[1]

	fs := flag.NewFlagSet("deploy "+kind, flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet funding the deployment")
	index := fs.Uint("index", 0, "Funding address index")
	fundingStr := fs.String("funding", "", "Coin amount to fund the covenant with (e.g. 0.5)")
	noCancel := fs.Bool("no-cancel", false, "Deploy without the cancelable flag")
	resumable := fs.Bool("resumable", false, "Allow pause/resume")

	// Vault
	period := fs.Uint64("period", 0, "Spending period in seconds")
	limitStr := fs.String("limit", "", "Coin spend limit per period")

	// Payment
	toAddr := fs.String("to", "", "Payment recipient address")
	amountStr := fs.String("amount", "", "Coin amount per payment")
	interval := fs.Uint64("interval", 0, "Payment interval in seconds")

	// Airdrop
	poolStr := fs.String("pool", "", "Total token pool (display units)")
	claimStr := fs.String("claim", "", "Token amount per claim (display units)")

	fs.Parse(args[2:])

	if *walletName == "" || *fundingStr == "" {
		fatal("deploy requires --wallet and --funding")
	}
	fundingSats, err := amount.CoinToSats(*fundingStr)
	if err != nil {
		fatal("invalid funding amount: %v", err)
	}
	floor := env.cfg.Funding.MinFundingFor(kind)
	if fundingSats < floor {
		fatal("funding %s is below the minimum %s", *fundingStr, amount.SatsToCoin(floor))
	}

	flags := commitment.FlagCancelable
	if *noCancel {
		flags = 0
	}
	if *resumable {
		flags |= commitment.FlagResumable
	}

	hdKey := walletSigner(env.cfg.KeystoreDir(), *walletName, uint32(*index))
	funder := hdKey.Address()
	now := uint64(time.Now().Unix())
	ctx := context.Background()

	var (
		proposal *covenant.Proposal
		inst     registry.Instance
	)

	switch kind {
	case "vault":
		if *period == 0 || *limitStr == "" {
			fatal("deploy vault requires --period and --limit")
		}
		limit, err := amount.CoinToSats(*limitStr)
		if err != nil {
			fatal("invalid limit: %v", err)
		}
		params := covenant.VaultParams{
			AuthorityHash: funder,
			PeriodSeconds: *period,
			SpendLimit:    limit,
		}
		proposal, err = env.engine.DeployVault(ctx, params, funder, fundingSats, flags, now)
		if err != nil {
			fatal("deploy vault: %v", err)
		}
		inst = registry.Instance{Kind: covenant.KindVault, Vault: &params,
			Address: covenant.DeriveAddress(params)}

	case "payment":
		if *toAddr == "" || *amountStr == "" || *interval == 0 {
			fatal("deploy payment requires --to, --amount and --interval")
		}
		recipient, err := types.ParseAddress(*toAddr)
		if err != nil {
			fatal("invalid recipient: %v", err)
		}
		payment, err := amount.CoinToSats(*amountStr)
		if err != nil {
			fatal("invalid amount: %v", err)
		}
		params := covenant.PaymentParams{
			AuthorityHash:   funder,
			RecipientHash:   recipient,
			PaymentSats:     payment,
			IntervalSeconds: *interval,
		}
		proposal, err = env.engine.DeployPayment(ctx, params, funder, fundingSats, flags, now)
		if err != nil {
			fatal("deploy payment: %v", err)
		}
		inst = registry.Instance{Kind: covenant.KindPayment, Payment: &params,
			Address: covenant.DeriveAddress(params)}

	case "airdrop":
		if *poolStr == "" || *claimStr == "" {
			fatal("deploy airdrop requires --pool and --claim")
		}
		pool, err := amount.TokenToBase(*poolStr)
		if err != nil {
			fatal("invalid pool: %v", err)
		}
		claim, err := amount.TokenToBase(*claimStr)
		if err != nil {
			fatal("invalid claim: %v", err)
		}
		params := covenant.AirdropParams{
			AuthorityHash: funder,
			TotalPool:     pool,
			ClaimAmount:   claim,
		}
		proposal, err = env.engine.DeployAirdrop(ctx, params, funder, fundingSats, flags, now)
		if err != nil {
			fatal("deploy airdrop: %v", err)
		}
		inst = registry.Instance{Kind: covenant.KindAirdrop, Airdrop: &params,
			Address: covenant.DeriveAddress(params)}

	default:
		fatal("Unknown deploy kind: %s (want vault, payment or airdrop)", kind)
	}

	txid := signAndSubmit(ctx, env.client, hdKey, proposal)

	// The anchor input's txid is the instance's token category.
	inst.Label = label
	inst.Category = types.Category(proposal.Tx.Inputs[0].PrevOut.TxID)
	inst.CreatedAt = now
	env.withRegistry(func(r *registry.Registry) error {
		return r.Put(&inst)
	})

	fmt.Printf("Submitted: %s\n", txid)
	fmt.Printf("Address:   %s\n", inst.Address)
	fmt.Printf("Category:  %s\n", inst.Category)
}

// ── fund ────────────────────────────────────────────────────────────────

func cmdFund(env *cliEnv, args []string) {
	if len(args) < 1 {
		fatal("Usage: treasury-cli fund <label> --wallet <w> --tokens <n>")
	}
	label := args[0]

	fs := flag.NewFlagSet("fund", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet providing the tokens")
	index := fs.Uint("index", 0, "Funding address index")
	tokensStr := fs.String("tokens", "", "Token amount to add (display units)")
	fs.Parse(args[1:])

	if *walletName == "" || *tokensStr == "" {
		fatal("fund requires --wallet and --tokens")
	}
	tokens, err := amount.TokenToBase(*tokensStr)
	if err != nil {
		fatal("invalid token amount: %v", err)
	}

	var inst *registry.Instance
	env.withRegistry(func(r *registry.Registry) error {
		var err error
		inst, err = r.GetByLabel(label)
		return err
	})

	hdKey := walletSigner(env.cfg.KeystoreDir(), *walletName, uint32(*index))
	funder := hdKey.Address()
	ctx := context.Background()

	proposal, err := env.engine.FundTokens(ctx, inst.Address, inst.Category, funder, tokens)
	if err != nil {
		fatal("fund: %v", err)
	}

	txid := signAndSubmit(ctx, env.client, hdKey, proposal)
	fmt.Printf("Submitted: %s\n", txid)
}

// signAndSubmit signs the proposal's P2PKH inputs with the wallet key and
// broadcasts the result.
func signAndSubmit(ctx context.Context, bc provider.Broadcaster, hdKey *wallet.HDKey, proposal *covenant.Proposal) types.Hash {
	signer, err := hdKey.Signer()
	if err != nil {
		fatal("signer: %v", err)
	}
	if err := wallet.SignProposal(proposal, signer); err != nil {
		fatal("sign proposal: %v", err)
	}

	fmt.Println(proposal.UserPrompt)
	txid, err := bc.Submit(ctx, proposal.Tx.Serialize())
	if err != nil {
		fatal("submit: %v", err)
	}
	return txid
}

// ── pause / resume / cancel ─────────────────────────────────────────────

// cmdTransition builds a state transition and prints the unsigned proposal
// for the covenant signer. The engine holds no keys; the printed wire form
// carries everything the signer needs.
func cmdTransition(env *cliEnv, args []string, action string) {
	if len(args) < 1 {
		fatal("Usage: treasury-cli %s <label>", action)
	}
	label := args[0]

	var inst *registry.Instance
	env.withRegistry(func(r *registry.Registry) error {
		var err error
		inst, err = r.GetByLabel(label)
		return err
	})

	now := uint64(time.Now().Unix())
	ctx := context.Background()

	var (
		proposal *covenant.Proposal
		err      error
	)
	switch inst.Kind {
	case covenant.KindVault:
		switch action {
		case "pause":
			proposal, err = env.engine.PauseVault(ctx, *inst.Vault, inst.Category, now)
		case "resume":
			proposal, err = env.engine.ResumeVault(ctx, *inst.Vault, inst.Category, now)
		case "cancel":
			proposal, err = env.engine.CancelVault(ctx, *inst.Vault, inst.Category, now)
		}
	case covenant.KindAirdrop:
		switch action {
		case "pause":
			proposal, err = env.engine.PauseAirdrop(ctx, *inst.Airdrop, inst.Category, now)
		case "cancel":
			proposal, err = env.engine.CancelAirdrop(ctx, *inst.Airdrop, inst.Category, now)
		default:
			fatal("airdrops do not support %s", action)
		}
	default:
		fatal("%s covenants do not support %s", inst.Kind, action)
	}
	if err != nil {
		fatal("%s %s: %v", action, label, err)
	}

	wire, err := proposal.Encode()
	if err != nil {
		fatal("encode proposal: %v", err)
	}
	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		fatal("marshal proposal: %v", err)
	}

	fmt.Fprintln(os.Stderr, proposal.UserPrompt)
	fmt.Println(string(data))
}

// ── status ──────────────────────────────────────────────────────────────

func cmdStatus(env *cliEnv, args []string) {
	if len(args) < 1 {
		fatal("Usage: treasury-cli status <label>")
	}
	label := args[0]

	var inst *registry.Instance
	env.withRegistry(func(r *registry.Registry) error {
		var err error
		inst, err = r.GetByLabel(label)
		return err
	})

	st, err := covenant.ReadState(context.Background(), env.client, inst.Address, inst.Category)
	if err != nil {
		fatal("read state: %v", err)
	}

	fmt.Printf("Label:      %s\n", inst.Label)
	fmt.Printf("Kind:       %s\n", inst.Kind)
	fmt.Printf("Address:    %s\n", inst.Address)
	fmt.Printf("Category:   %s\n", inst.Category)
	fmt.Printf("Outpoint:   %s\n", st.UTXO.Outpoint)
	fmt.Printf("Balance:    %s\n", amount.SatsToCoin(st.UTXO.Value))
	if st.UTXO.Token != nil && st.UTXO.Token.Amount > 0 {
		fmt.Printf("Tokens:     %s\n", amount.BaseToToken(st.UTXO.Token.Amount))
	}
	fmt.Printf("Capability: %s\n", st.Capability)

	switch inst.Kind {
	case covenant.KindVault:
		v, err := commitment.DecodeVault(st.Commitment)
		if err != nil {
			fatal("decode vault state: %v", err)
		}
		fmt.Printf("Status:     %s\n", v.Status)
		fmt.Printf("Period start: %s\n", time.Unix(int64(v.PeriodStart), 0).UTC().Format(time.RFC3339))
		fmt.Printf("Spent this period: %s\n", amount.SatsToCoin(v.SpentThisPeriod))
		fmt.Printf("Approvals:  %d\n", v.Approvals)
	case covenant.KindPayment:
		p, err := commitment.DecodePayment(st.Commitment)
		if err != nil {
			fatal("decode payment state: %v", err)
		}
		fmt.Printf("Status:     %s\n", p.Status)
		fmt.Printf("Next payment: %s\n", time.Unix(int64(p.NextPaymentAt), 0).UTC().Format(time.RFC3339))
		fmt.Printf("Payments made: %d\n", p.PaymentsMade)
		fmt.Printf("Total paid: %s\n", amount.SatsToCoin(p.TotalPaid))
	case covenant.KindAirdrop:
		a, err := commitment.DecodeAirdrop(st.Commitment)
		if err != nil {
			fatal("decode airdrop state: %v", err)
		}
		fmt.Printf("Status:     %s\n", a.Status)
		fmt.Printf("Started:    %s\n", time.Unix(int64(a.StartAt), 0).UTC().Format(time.RFC3339))
		fmt.Printf("Claims made: %d\n", a.ClaimsMade)
		fmt.Printf("Claimed:    %s of %s\n",
			amount.BaseToToken(a.TotalClaimed), amount.BaseToToken(inst.Airdrop.TotalPool))
	}
}

// ── verify ──────────────────────────────────────────────────────────────

func cmdVerify(env *cliEnv, args []string) {
	if len(args) < 1 {
		fatal("Usage: treasury-cli verify <txid> [--label <l>] [--to <addr>] [--min <coins>] [--min-tokens <n>]")
	}
	txid, err := types.HexToHash(args[0])
	if err != nil {
		fatal("invalid txid: %v", err)
	}

	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	label := fs.String("label", "", "Registered covenant expected to receive the output")
	toAddr := fs.String("to", "", "Plain address expected to receive the output")
	minStr := fs.String("min", "", "Minimum coin value (e.g. 0.0005)")
	minTokensStr := fs.String("min-tokens", "", "Minimum fungible token amount (display units)")
	fs.Parse(args[1:])

	var criteria covenant.Criteria
	switch {
	case *label != "":
		var inst *registry.Instance
		env.withRegistry(func(r *registry.Registry) error {
			var err error
			inst, err = r.GetByLabel(*label)
			return err
		})
		criteria.Script = types.CovenantScript(inst.Address)
		category := inst.Category
		criteria.Category = &category
	case *toAddr != "":
		addr, err := types.ParseAddress(*toAddr)
		if err != nil {
			fatal("invalid address: %v", err)
		}
		criteria.Script = types.P2PKHScript(addr)
	default:
		fatal("verify requires --label or --to")
	}

	if *minStr != "" {
		minValue, err := amount.CoinToSats(*minStr)
		if err != nil {
			fatal("invalid minimum value: %v", err)
		}
		criteria.MinValue = minValue
	}
	if *minTokensStr != "" {
		minTokens, err := amount.TokenToBase(*minTokensStr)
		if err != nil {
			fatal("invalid minimum tokens: %v", err)
		}
		criteria.MinTokenAmount = minTokens
	}

	if covenant.HasExpectedOutput(context.Background(), env.client, txid, criteria) {
		fmt.Println("OK: expected output found")
		return
	}
	fmt.Println("MISSING: no output matched the expected criteria")
	os.Exit(1)
}

// ── watch ───────────────────────────────────────────────────────────────

func cmdWatch(env *cliEnv, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	interval := fs.Uint("interval", 30, "Polling interval in seconds")
	fs.Parse(args)
	labels := fs.Args()

	mon := monitor.New(env.client, time.Duration(*interval)*time.Second, func(b monitor.Balance) {
		fmt.Printf("%s  %s coins", b.Address, amount.SatsToCoin(b.Coins))
		if b.Tokens > 0 {
			fmt.Printf("  %s tokens", amount.BaseToToken(b.Tokens))
		}
		fmt.Println()
	})

	env.withRegistry(func(r *registry.Registry) error {
		instances, err := r.List()
		if err != nil {
			return err
		}
		for _, inst := range instances {
			if len(labels) > 0 && !contains(labels, inst.Label) {
				continue
			}
			mon.Watch(inst.Address, inst.Category)
		}
		return nil
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	mon.Run(ctx)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ── list ────────────────────────────────────────────────────────────────

func cmdList(env *cliEnv) {
	env.withRegistry(func(r *registry.Registry) error {
		instances, err := r.List()
		if err != nil {
			return err
		}
		if len(instances) == 0 {
			fmt.Println("No covenants registered.")
			return nil
		}
		for _, inst := range instances {
			fmt.Printf("%-20s %-8s %s\n", inst.Label, inst.Kind, inst.Address)
		}
		return nil
	})
}

// ── helpers ─────────────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
