package xmlimport

import (
	"strings"
	"testing"

	"amfcore/internal/configadapter"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<imm-contents>
  <class name="AmfCompType" category="config">
    <attr name="saAmfCtDefRecoveryOnError" type="string" flag="config" default-value="COMPONENT-RESTART"/>
  </class>
  <object class="AmfCluster">
    <rdn>safCluster=1</rdn>
    <attr name="saAmfClusterStartupTimeout" value="60000"/>
  </object>
  <object class="AmfCSI">
    <rdn>safCsi=csi1,safSi=si1,safSg=sg1,safCluster=1</rdn>
    <attr name="saAmfCSType" value="ctype1"/>
  </object>
  <object class="AmfCSI">
    <rdn>safCsi=csi2,safSi=si1,safSg=sg1,safCluster=1</rdn>
    <attr name="saAmfCSType" value="ctype1"/>
    <attr name="saAmfCSIDependencies" value="safCsi=csi1,safSi=si1,safSg=sg1,safCluster=1"/>
    <attr name="saAmfCSIOpaque" value="aGVsbG8=" xsi:type="xs:base64Binary"/>
  </object>
</imm-contents>`

func TestImportBasic(t *testing.T) {
	res, err := Import(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	require.Len(t, res.Classes, 1)
	require.Equal(t, "AmfCompType", res.Classes[0].Name)
	require.Len(t, res.Objects, 3)

	var csi2 *configadapter.Object
	for i := range res.Objects {
		if res.Objects[i].DN == "safCsi=csi2,safSi=si1,safSg=sg1,safCluster=1" {
			csi2 = &res.Objects[i]
		}
	}
	require.NotNil(t, csi2)
	require.Equal(t, "safSi=si1,safSg=sg1,safCluster=1", csi2.ParentDN)
	require.Equal(t, "aGVsbG8=", csi2.Attrs["saAmfCSIOpaque"])
}

func TestImportRejectsUnknownClass(t *testing.T) {
	doc := `<imm-contents><object class="NotARealClass"><rdn>x=1</rdn></object></imm-contents>`
	_, err := Import(strings.NewReader(doc))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown class")
}

func TestImportRejectsDuplicateName(t *testing.T) {
	doc := `<imm-contents>
	  <object class="AmfCluster"><rdn>safCluster=1</rdn></object>
	  <object class="AmfCluster"><rdn>safCluster=1</rdn></object>
	</imm-contents>`
	_, err := Import(strings.NewReader(doc))
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate object name")
}

func TestImportRejectsLongDN(t *testing.T) {
	long := strings.Repeat("a", 260)
	doc := `<imm-contents><object class="AmfCluster"><rdn>` + long + `</rdn></object></imm-contents>`
	_, err := Import(strings.NewReader(doc))
	require.Error(t, err)
	require.Contains(t, err.Error(), "INVALID-PARAM")
}

func TestImportRejectsCyclicCSIDependency(t *testing.T) {
	doc := `<imm-contents>
	  <object class="AmfCSI">
	    <rdn>safCsi=a,safSi=si1,safSg=sg1,safCluster=1</rdn>
	    <attr name="saAmfCSIDependencies" value="safCsi=b,safSi=si1,safSg=sg1,safCluster=1"/>
	  </object>
	  <object class="AmfCSI">
	    <rdn>safCsi=b,safSi=si1,safSg=sg1,safCluster=1</rdn>
	    <attr name="saAmfCSIDependencies" value="safCsi=a,safSi=si1,safSg=sg1,safCluster=1"/>
	  </object>
	</imm-contents>`
	_, err := Import(strings.NewReader(doc))
	require.Error(t, err)
	require.Contains(t, err.Error(), "cyclic CSI dependency")
}
