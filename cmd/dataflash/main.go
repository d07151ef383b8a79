// Command dataflash programs and inspects AT45DB DataFlash chips
// attached over SPI. The transport and expected chip family come from a
// YAML config file; see config.example.yaml at the repository root.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	rpio "github.com/stianeikeland/go-rpio/v4"
	"periph.io/x/conn/v3/physic"

	"github.com/rabidaudio/dataflash/at45"
	"github.com/rabidaudio/dataflash/config"
	"github.com/rabidaudio/dataflash/image"
	"github.com/rabidaudio/dataflash/spi"
	"github.com/rabidaudio/dataflash/spidev"
)

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	var verbose bool

	root := &cobra.Command{
		Use:           "dataflash",
		Short:         "Program and inspect AT45DB DataFlash chips",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "dataflash.yaml", "config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newProbeCmd(&cfgPath),
		newStatusCmd(&cfgPath),
		newIDCmd(&cfgPath),
		newReadCmd(&cfgPath),
		newDumpCmd(&cfgPath),
		newWriteCmd(&cfgPath),
		newEraseCmd(&cfgPath),
	)
	return root
}

// openFlash builds the configured transport, binds the driver and runs
// identification.
func openFlash(cfgPath string) (*at45.Flash, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	var t at45.Transport
	switch cfg.Transport {
	case "rpio":
		t, err = spi.Open(rpio.SpiDev(cfg.Rpio.Bus), cfg.Rpio.CSPin, cfg.Rpio.SpeedHz)
	default:
		t, err = spidev.Open(cfg.Spidev.Port, cfg.Spidev.CSPin,
			physic.Frequency(cfg.Spidev.SpeedMHz)*physic.MegaHertz)
	}
	if err != nil {
		return nil, err
	}
	f := at45.New(t, cfg.Density(), at45.WithLogger(log))
	if err := f.Initialize(); err != nil {
		t.Close()
		return nil, err
	}
	return f, nil
}

func newProbeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Identify the attached chip and print its geometry",
		RunE: func(*cobra.Command, []string) error {
			f, err := openFlash(*cfgPath)
			if err != nil {
				return err
			}
			defer f.End()
			g := f.Geometry()
			fmt.Printf("pages:      %d x %d bytes\n", g.Pages, g.PageBytes)
			fmt.Printf("blocks:     %d x %d pages\n", g.Blocks(), g.Pages/g.Blocks())
			fmt.Printf("capacity:   %d bytes\n", g.Capacity())
			fmt.Printf("data start: %d (page 0 reserved)\n", g.DataStart())
			return nil
		},
	}
}

func newStatusCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the status register",
		RunE: func(*cobra.Command, []string) error {
			f, err := openFlash(*cfgPath)
			if err != nil {
				return err
			}
			defer f.End()
			fmt.Printf("status: %#02x busy: %v\n", f.ReadStatus(), f.Busy())
			return nil
		},
	}
}

func newIDCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "id",
		Short: "Print the 8-byte unique identifier",
		RunE: func(*cobra.Command, []string) error {
			f, err := openFlash(*cfgPath)
			if err != nil {
				return err
			}
			defer f.End()
			id, err := f.ReadUniqueID()
			if err != nil {
				return err
			}
			fmt.Printf("%x\n", id[:])
			return nil
		},
	}
}

func newReadCmd(cfgPath *string) *cobra.Command {
	var addr uint32
	var length int
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Hex dump a byte range",
		RunE: func(*cobra.Command, []string) error {
			f, err := openFlash(*cfgPath)
			if err != nil {
				return err
			}
			defer f.End()
			buf := make([]byte, length)
			if _, err := f.ReadAt(buf, int64(addr)); err != nil {
				return err
			}
			fmt.Print(hex.Dump(buf))
			return nil
		},
	}
	cmd.Flags().Uint32Var(&addr, "addr", 0, "start address")
	cmd.Flags().IntVar(&length, "len", 256, "byte count")
	return cmd
}

func newDumpCmd(cfgPath *string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Read the whole array into a file",
		RunE: func(*cobra.Command, []string) error {
			f, err := openFlash(*cfgPath)
			if err != nil {
				return err
			}
			defer f.End()
			buf := make([]byte, f.Size())
			if err := f.ReadBytes(0, buf); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf, 0o644); err != nil {
				return err
			}
			log.Infof("dumped %d bytes to %s", len(buf), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "dataflash.bin", "output file")
	return cmd
}

func newWriteCmd(cfgPath *string) *cobra.Command {
	var addr uint32
	cmd := &cobra.Command{
		Use:   "write <file>",
		Short: "Write a file or disk image into the array",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			f, err := openFlash(*cfgPath)
			if err != nil {
				return err
			}
			defer f.End()

			if info, err := image.Describe(args[0]); err == nil {
				log.Info(info.String())
			}
			src, size, err := image.Open(args[0], f.Size()-int64(addr))
			if err != nil {
				return err
			}
			defer src.Close()

			data, err := io.ReadAll(src)
			if err != nil {
				return err
			}
			if err := f.WriteBytes(addr, data); err != nil {
				return err
			}
			log.Infof("wrote %d bytes at %d", size, addr)
			return nil
		},
	}
	cmd.Flags().Uint32Var(&addr, "addr", 0, "start address")
	return cmd
}

func newEraseCmd(cfgPath *string) *cobra.Command {
	var addr uint32
	var all bool
	var size string
	cmd := &cobra.Command{
		Use:   "erase",
		Short: "Erase a 4k/32k/64k region, or the whole chip with --all",
		RunE: func(*cobra.Command, []string) error {
			f, err := openFlash(*cfgPath)
			if err != nil {
				return err
			}
			defer f.End()
			if all {
				return f.EraseChip()
			}
			switch strings.ToLower(size) {
			case "4k":
				return f.BlockErase4K(addr)
			case "32k":
				return f.BlockErase32K(addr)
			case "64k":
				return f.BlockErase64K(addr)
			default:
				return fmt.Errorf("unknown erase size %q (want 4k, 32k or 64k)", size)
			}
		},
	}
	cmd.Flags().Uint32Var(&addr, "addr", 0, "start address")
	cmd.Flags().StringVar(&size, "size", "4k", "region size: 4k, 32k or 64k")
	cmd.Flags().BoolVar(&all, "all", false, "erase the entire chip")
	return cmd
}
