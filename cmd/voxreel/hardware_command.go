package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"voxreel/internal/hardware"
)

func newHardwareCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "hardware",
		Short: "Show the detected hardware profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			profile := hardware.NewDetector(logger).Detect(cmd.Context())

			gpu := "none"
			vram := "-"
			if profile.GPUAvailable() {
				gpu = fmt.Sprintf("%s (%s)", profile.GPUName, profile.GPU)
				if profile.VRAMMiB > 0 {
					vram = humanize.IBytes(uint64(profile.VRAMMiB) << 20)
				}
			}
			encoder := "software"
			if profile.Encoder != hardware.EncoderNone {
				encoder = string(profile.Encoder)
			}

			rows := [][]string{
				{"GPU", gpu},
				{"VRAM", vram},
				{"RAM", humanize.IBytes(uint64(profile.RAMMiB) << 20)},
				{"CPU threads", strconv.Itoa(profile.CPUThreads)},
				{"Video encoder", encoder},
				{"Encoder threads", strconv.Itoa(profile.FFmpegThreads)},
				{"Model precision", string(profile.Precision)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Property", "Value"}, rows,
				[]columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}
}
