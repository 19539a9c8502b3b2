package billing

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jhoicas/invoicer/internal/application/dto"
	"github.com/jhoicas/invoicer/internal/domain/entity"
)

// PromptItems pide ítems por consola hasta recibir una descripción vacía (o EOF).
// La descripción acepta el índice de un servicio del contrato, que además
// propone su precio por defecto.
func PromptItems(r io.Reader, w io.Writer, contract *entity.Contract) ([]dto.ItemRequest, error) {
	in := bufio.NewScanner(r)
	p := &prompter{in: in, w: w}

	if contract != nil && len(contract.Services) > 0 {
		fmt.Fprintf(w, "Services for %s:\n", contract.Name)
		for i, s := range contract.Services {
			fmt.Fprintf(w, "  [%d] %s (%s, %.2f)\n", i+1, s.Name, s.Type, s.Price)
		}
	}

	items := []dto.ItemRequest{}
	for {
		desc, ok := p.ask("Description (service number or text, empty to finish): ")
		if !ok || desc == "" {
			break
		}
		var defaultPrice *float64
		if contract != nil {
			if n, err := strconv.Atoi(desc); err == nil && n >= 1 && n <= len(contract.Services) {
				s := contract.Services[n-1]
				desc = s.Name
				defaultPrice = &s.Price
			}
		}

		qty, err := p.number("Quantity", nil)
		if err != nil {
			return nil, err
		}
		price, err := p.number("Unit price", defaultPrice)
		if err != nil {
			return nil, err
		}
		period, _ := p.ask("Period (empty = issue date): ")

		items = append(items, dto.ItemRequest{
			Description: desc,
			Period:      period,
			Qty:         qty,
			UnitPrice:   price,
		})
	}
	if err := in.Err(); err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}
	return items, nil
}

type prompter struct {
	in *bufio.Scanner
	w  io.Writer
}

func (p *prompter) ask(label string) (string, bool) {
	fmt.Fprint(p.w, label)
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

// number repite la pregunta hasta obtener un número válido.
func (p *prompter) number(label string, def *float64) (float64, error) {
	for {
		prompt := label + ": "
		if def != nil {
			prompt = fmt.Sprintf("%s [%.2f]: ", label, *def)
		}
		raw, ok := p.ask(prompt)
		if !ok {
			return 0, errors.New("unexpected end of input")
		}
		if raw == "" && def != nil {
			return *def, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(p.w, "%q is not a number\n", raw)
	}
}
