package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/genesis"
	"github.com/libertyswede/nxtnode/foundation/blockchain/protocol"
	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
)

var (
	to          string
	amount      int64
	fee         int64
	deadline    int16
	message     string
	genesisPath string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a payment, or an arbitrary message with --message",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account id of the recipient.")
	sendCmd.Flags().Int64VarP(&amount, "amount", "v", 0, "Amount to send in whole coins.")
	sendCmd.Flags().Int64VarP(&fee, "fee", "f", 1, "Fee in whole coins.")
	sendCmd.Flags().Int16VarP(&deadline, "deadline", "d", 1440, "Minutes the transaction may wait to be forged.")
	sendCmd.Flags().StringVarP(&message, "message", "m", "", "Message to send instead of a payment.")
	sendCmd.Flags().StringVarP(&genesisPath, "genesis", "g", "zblock/genesis.json", "Path to the genesis file of the network.")
	sendCmd.MarkFlagRequired("to")
}

func sendRun(cmd *cobra.Command, args []string) error {
	privateKey, err := loadKey()
	if err != nil {
		return err
	}

	recipient, err := database.ParseID(to)
	if err != nil {
		return err
	}

	gen, err := genesis.Load(genesisPath)
	if err != nil {
		return fmt.Errorf("load genesis: %w", err)
	}

	var status struct {
		Height int32 `json:"height"`
	}
	if err := call(http.MethodGet, "/v1/status", nil, &status); err != nil {
		return err
	}

	tx := database.Transaction{
		Kind:            database.KindOrdinaryPayment,
		Timestamp:       database.EpochTime(time.Now()),
		Deadline:        deadline,
		SenderPublicKey: signature.PublicKey(privateKey),
		RecipientID:     recipient,
		AmountNQT:       amount * database.OneNxt,
		FeeNQT:          fee * database.OneNxt,
	}
	if message != "" {
		tx.Kind = database.KindArbitraryMessage
		tx.AmountNQT = 0
		tx.Attachment = database.MessageAttachment{Message: []byte(message)}
	}

	if err := tx.Sign(gen.CreatorPublicKey, privateKey, status.Height >= gen.Eras.NQTBlock); err != nil {
		return err
	}

	wire, err := protocol.NewTransaction(&tx)
	if err != nil {
		return err
	}

	var resp struct {
		Transaction database.ID `json:"transaction"`
		FullHash    string      `json:"full_hash"`
	}
	if err := call(http.MethodPost, "/v1/tx/submit", wire, &resp); err != nil {
		return err
	}

	fmt.Println("Transaction:", resp.Transaction)
	fmt.Println("Full Hash:  ", resp.FullHash)

	return nil
}
