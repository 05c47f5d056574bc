package main

import (
	"bufio"
	log "github.com/sirupsen/logrus"
	"github.com/thedemo/productsd/banner"
	"github.com/thedemo/productsd/connectivity"
	"github.com/thedemo/productsd/product"
	"github.com/thedemo/productsd/screen"
	"io"
	"strconv"
	"strings"
)

// consoleView logs what a real screen would draw.
type consoleView struct {
	log *log.Entry
}

func (v *consoleView) ShowProducts(list screen.ListRenderer) {
	v.log.Infof("Showing %v products", list.ItemCount())

	for i := 0; i < list.ItemCount(); i++ {
		p, err := list.RenderItem(i)
		if err != nil {
			v.log.Errorf("Could not render product %v: %v", i, err)
			continue
		}

		v.log.WithField("image", p.Image.URL).Infof("[%v] %v (%vx%v)", i, p.Title, p.Image.Width, p.Image.Height)
	}
}

func (v *consoleView) SetRefreshing(on bool) {
	v.log.Debugf("Refreshing: %v", on)
}

func (v *consoleView) ScrollToTop() {
	v.log.Debug("Scrolled to top")
}

func (v *consoleView) Render(effect banner.Effect) {
	switch effect {
	case banner.ShowOffline:
		v.log.Warn("No internet connection")
	case banner.ShowOnline:
		v.log.Info("Back online")
	default:
		v.log.Debugf("Banner: %v", effect)
	}
}

func (v *consoleView) ShowDetails(p product.Product) {
	v.log.WithField("id", p.ID).Infof("Details of %v", p.Title)
}

func (v *consoleView) ShowError(err error) {
	v.log.Errorf("Could not load products: %v", err)
}

// readGestures turns lines of input into gestures until r is exhausted.
// With a mock reporter "online" and "offline" switch reachability.
func readGestures(r io.Reader, c *screen.Controller, mock *connectivity.MockReporter) {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "refresh", "r":
			c.Refresh()
		case "button", "b":
			c.RefreshButton()
		case "scroll", "s":
			c.Scroll()
		case "select":
			if len(fields) < 2 {
				log.Warn("Usage: select <index>")
				continue
			}

			i, err := strconv.Atoi(fields[1])
			if err != nil {
				log.Warnf("Invalid index %v", fields[1])
				continue
			}

			c.Select(i)
		case "online", "offline":
			if mock == nil {
				log.Warn("Reachability can only be switched with --net=mock")
				continue
			}

			if fields[0] == "online" {
				mock.Set(connectivity.Online)
			} else {
				mock.Set(connectivity.Offline)
			}
		default:
			log.Warnf("Unknown gesture %v", fields[0])
		}
	}

	if err := scanner.Err(); err != nil {
		log.Errorf("Could not read gestures: %v", err)
	}
}
