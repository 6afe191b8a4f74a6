package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sherine-k/queuesim/pkg/config"
)

// promptParameters asks for the three required parameters, one per line
func promptParameters(in io.Reader, out io.Writer, cfg *config.Config) error {
	scanner := bufio.NewScanner(in)

	ask := func(label string) (string, error) {
		fmt.Fprint(out, label)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return strings.TrimSpace(scanner.Text()), nil
	}

	answer, err := ask("Enter arrival rate (customers per unit time): ")
	if err != nil {
		return err
	}
	if cfg.ArrivalRate, err = strconv.ParseFloat(answer, 64); err != nil {
		return fmt.Errorf("%w: arrival rate %q is not a number", config.ErrInvalidConfig, answer)
	}

	answer, err = ask("Enter service rate (services per unit time): ")
	if err != nil {
		return err
	}
	if cfg.ServiceRate, err = strconv.ParseFloat(answer, 64); err != nil {
		return fmt.Errorf("%w: service rate %q is not a number", config.ErrInvalidConfig, answer)
	}

	answer, err = ask("Enter number of servers: ")
	if err != nil {
		return err
	}
	if cfg.NumServers, err = strconv.Atoi(answer); err != nil {
		return fmt.Errorf("%w: server count %q is not an integer", config.ErrInvalidConfig, answer)
	}

	return nil
}
